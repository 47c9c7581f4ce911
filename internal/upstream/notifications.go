package upstream

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// Notifications fetches notifications newer than afterID. The legacy
// endpoint answers with either a bare array or an object carrying
// notifications plus latest_id; both shapes are accepted.
func (c *Client) Notifications(ctx context.Context, afterID int) ([]models.Notification, int, error) {
	query := url.Values{}
	if afterID > 0 {
		query.Set("after_id", strconv.Itoa(afterID))
	}

	var raw json.RawMessage
	if err := c.GetJSON(ctx, "get-notifications.php", query, &raw); err != nil {
		return nil, 0, err
	}

	var list []models.Notification
	if err := json.Unmarshal(raw, &list); err == nil {
		latest := afterID
		for _, n := range list {
			if n.ID > latest {
				latest = n.ID
			}
		}
		return list, latest, nil
	}

	var wrapped struct {
		Notifications []models.Notification `json:"notifications"`
		LatestID      int                   `json:"latest_id"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, 0, &Error{Status: 200, Message: "malformed JSON", Body: string(raw)}
	}
	latest := wrapped.LatestID
	if latest < afterID {
		latest = afterID
	}
	return wrapped.Notifications, latest, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	form := url.Values{"id": {strconv.Itoa(id)}}
	var outcome actionOutcome
	if err := c.PostForm(ctx, "mark-notification-read.php", form, &outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return &Error{Status: 200, Message: outcome.Message}
	}
	return nil
}

// ListAnnouncements fetches portal-wide announcements.
func (c *Client) ListAnnouncements(ctx context.Context, query url.Values) ([]models.Announcement, error) {
	var payload struct {
		Announcements []models.Announcement `json:"announcements"`
	}
	if err := c.GetJSON(ctx, "get-announcements.php", query, &payload); err != nil {
		return nil, err
	}
	return payload.Announcements, nil
}
