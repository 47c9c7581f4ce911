package upstream

import (
	"context"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// Login relays credentials to login.php and returns the profile
// display data the portal answers with.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	body := map[string]string{"username": username, "password": password}
	var payload struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		ID             int    `json:"id"`
		FullName       string `json:"full_name"`
		FirstName      string `json:"first_name"`
		Role           string `json:"role"`
		ProfilePicture string `json:"profile_picture"`
		IDNumber       string `json:"id_number"`
		Department     string `json:"department"`
	}
	if err := c.PostJSON(ctx, "login.php", body, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &Error{Status: 200, Message: payload.Message}
	}
	return &models.Profile{
		ID:             payload.ID,
		Username:       username,
		FullName:       payload.FullName,
		FirstName:      payload.FirstName,
		Role:           payload.Role,
		ProfilePicture: payload.ProfilePicture,
		IDNumber:       payload.IDNumber,
		Department:     payload.Department,
	}, nil
}

// Register relays a registration form (multipart, to carry the
// profile picture through untouched).
func (c *Client) Register(ctx context.Context, fields map[string]string, files []FilePart) error {
	var outcome actionOutcome
	if err := c.PostMultipart(ctx, "register.php", fields, files, &outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return &Error{Status: 200, Message: outcome.Message}
	}
	return nil
}
