package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// ListAccreditationOrganizations fetches organizations in the
// accreditation workflow, scoped by the academic-year context.
func (c *Client) ListAccreditationOrganizations(ctx context.Context, query url.Values) ([]models.Organization, error) {
	var payload struct {
		Organizations []models.Organization `json:"organizations"`
	}
	if err := c.GetJSON(ctx, "get-accreditation-organizations.php", query, &payload); err != nil {
		return nil, err
	}
	for i := range payload.Organizations {
		normalizeOrg(&payload.Organizations[i])
	}
	return payload.Organizations, nil
}

// GetOrganization fetches one organization with its document
// checklist.
func (c *Client) GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	query := url.Values{"id": {strconv.Itoa(id)}}
	var org models.Organization
	if err := c.GetJSON(ctx, "get-organization.php", query, &org); err != nil {
		return nil, err
	}
	normalizeOrg(&org)
	return &org, nil
}

// ReviewOutcome is the response of review-accreditation-file.php.
type ReviewOutcome struct {
	FileStatus       string `json:"file_status"`
	OrgStatusUpdated bool   `json:"org_status_updated"`
	OrgNewStatus     string `json:"org_new_status"`
}

// ReviewFile applies a reviewer action (approve, decline, review) to
// one document. Decline requires a reason.
func (c *Client) ReviewFile(ctx context.Context, fileID int, action, reason string) (*ReviewOutcome, error) {
	body := map[string]interface{}{
		"file_id": fileID,
		"action":  action,
		"reason":  reason,
	}
	var outcome ReviewOutcome
	if err := c.PostJSON(ctx, "review-accreditation-file.php", body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ReplaceFile uploads a replacement for a declined document.
func (c *Client) ReplaceFile(ctx context.Context, fileID int, part FilePart) error {
	fields := map[string]string{"file_id": strconv.Itoa(fileID)}
	var outcome actionOutcome
	if err := c.PostMultipart(ctx, "replace-accreditation-file.php", fields, []FilePart{part}, &outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return &Error{Status: 200, Message: outcome.Message}
	}
	return nil
}

// normalizeOrg folds upstream status spellings into the canonical
// taxonomy before anything downstream can diverge on them.
func normalizeOrg(org *models.Organization) {
	for i := range org.Files {
		org.Files[i].Status = models.NormalizeDocStatus(string(org.Files[i].Status))
	}
	if org.Status == "" {
		org.Status = models.DeriveOrgStatus(org.Files)
	}
}
