package upstream

import (
	"context"
	"net/url"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// ListStudentEvents fetches the events visible to the logged-in
// student, with nested expense ledgers.
func (c *Client) ListStudentEvents(ctx context.Context, query url.Values) ([]models.Event, error) {
	var payload struct {
		Events []models.Event `json:"events"`
	}
	if err := c.GetJSON(ctx, "event-list-events-student.php", query, &payload); err != nil {
		return nil, err
	}
	return payload.Events, nil
}
