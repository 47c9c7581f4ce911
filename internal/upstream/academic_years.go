package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// ActiveYear is the payload of get-active-academic-year.php. The
// label arrives under either school_year or label depending on the
// endpoint revision, and active_year is not always present.
type ActiveYear struct {
	SchoolYear string `json:"school_year"`
	Label      string `json:"label"`
	StartYear  int    `json:"start_year"`
	EndYear    int    `json:"end_year"`
	ActiveYear int    `json:"active_year"`
}

// DisplayLabel prefers school_year over label.
func (a ActiveYear) DisplayLabel() string {
	if a.SchoolYear != "" {
		return a.SchoolYear
	}
	return a.Label
}

// ListAcademicYears fetches every school-year range.
func (c *Client) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	var payload struct {
		Years []models.AcademicYear `json:"years"`
	}
	if err := c.GetJSON(ctx, "get-academic-years.php", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Years, nil
}

// ActiveAcademicYear fetches the portal-wide active range.
func (c *Client) ActiveAcademicYear(ctx context.Context) (*ActiveYear, error) {
	var payload ActiveYear
	if err := c.GetJSON(ctx, "get-active-academic-year.php", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

type actionOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ActivateAcademicYear makes the identified range the active one.
func (c *Client) ActivateAcademicYear(ctx context.Context, id int) error {
	return c.postYearAction(ctx, "activate-academic-year.php", id)
}

// SwitchAcademicYear flips the open semester within the active range.
func (c *Client) SwitchAcademicYear(ctx context.Context, id int) error {
	return c.postYearAction(ctx, "switch-academic-year.php", id)
}

func (c *Client) postYearAction(ctx context.Context, path string, id int) error {
	form := url.Values{"id": {strconv.Itoa(id)}}
	var outcome actionOutcome
	if err := c.PostForm(ctx, path, form, &outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return &Error{Status: 200, Message: outcome.Message}
	}
	return nil
}
