package upstream

import (
	"context"
	"net/url"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// UserOrganizationFees fetches the fees owed by the logged-in member.
func (c *Client) UserOrganizationFees(ctx context.Context, query url.Values) ([]models.Fee, error) {
	var payload struct {
		Fees []models.Fee `json:"fees"`
	}
	if err := c.GetJSON(ctx, "get-user-organization-fees.php", query, &payload); err != nil {
		return nil, err
	}
	return payload.Fees, nil
}

// UserPaymentHistory fetches settled payments for the member.
func (c *Client) UserPaymentHistory(ctx context.Context, query url.Values) ([]models.Payment, error) {
	var payload struct {
		Payments []models.Payment `json:"payments"`
	}
	if err := c.GetJSON(ctx, "get-user-payment-history.php", query, &payload); err != nil {
		return nil, err
	}
	return payload.Payments, nil
}

// UnpaidSummary is the payload of check-unpaid-fees.php.
type UnpaidSummary struct {
	HasUnpaid bool    `json:"has_unpaid"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
}

// CheckUnpaidFees reports whether the member has outstanding fees.
func (c *Client) CheckUnpaidFees(ctx context.Context) (*UnpaidSummary, error) {
	var summary UnpaidSummary
	if err := c.GetJSON(ctx, "check-unpaid-fees.php", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CheckPaymentDueNotif reports whether a payment-due notification was
// already created for the current cycle.
func (c *Client) CheckPaymentDueNotif(ctx context.Context) (bool, error) {
	var payload struct {
		Exists bool `json:"exists"`
	}
	if err := c.GetJSON(ctx, "check-payment-due-notif.php", nil, &payload); err != nil {
		return false, err
	}
	return payload.Exists, nil
}

// CreatePaymentDueNotif asks the portal to create a payment-due
// notification for the member.
func (c *Client) CreatePaymentDueNotif(ctx context.Context) error {
	var outcome actionOutcome
	if err := c.PostForm(ctx, "create-payment-due-notif.php", url.Values{}, &outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return &Error{Status: 200, Message: outcome.Message}
	}
	return nil
}
