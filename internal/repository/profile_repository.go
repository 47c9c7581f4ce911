package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

// ProfileRepository keeps the logged-in user's display profile in
// Redis. The legacy client parked this data in browser localStorage;
// the gateway holds it server-side keyed by user id.
type ProfileRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ProfileRepository{client: client, logger: logger, ttl: ttl}
}

func profileKey(userID int) string {
	return "profile:" + strconv.Itoa(userID)
}

// Get loads a stored profile; ErrCacheMiss when none exists.
func (r *ProfileRepository) Get(ctx context.Context, userID int) (*models.Profile, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get profile %d: %w", userID, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile %d: %w", userID, err)
	}
	return &profile, nil
}

// Set stores the profile with the configured session TTL.
func (r *ProfileRepository) Set(ctx context.Context, profile *models.Profile) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %d: %w", profile.ID, err)
	}
	if err := r.client.Set(ctx, profileKey(profile.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile %d: %w", profile.ID, err)
	}
	return nil
}

// Delete removes the profile on logout.
func (r *ProfileRepository) Delete(ctx context.Context, userID int) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete profile %d: %w", userID, err)
	}
	return nil
}
