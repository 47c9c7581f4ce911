package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	"github.com/noah-isme/orgportal-gateway/pkg/config"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

type fakeSessionUpstream struct {
	profile  *models.Profile
	loginErr error
	regErr   error
}

func (f *fakeSessionUpstream) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.profile, nil
}

func (f *fakeSessionUpstream) Register(ctx context.Context, fields map[string]string, files []upstream.FilePart) error {
	return f.regErr
}

type fakeProfileStore struct {
	profiles map[int]*models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[int]*models.Profile{}}
}

func (f *fakeProfileStore) Get(ctx context.Context, userID int) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return p, nil
}

func (f *fakeProfileStore) Set(ctx context.Context, profile *models.Profile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileStore) Delete(ctx context.Context, userID int) error {
	delete(f.profiles, userID)
	return nil
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:         "test-jwt-secret",
		Expiration:     time.Hour,
		RememberSecret: "0123456789abcdef0123456789abcdef",
		RememberTTL:    30 * 24 * time.Hour,
	}
}

func newTestSessionService(t *testing.T, up sessionUpstream, store profileStore) *SessionService {
	t.Helper()
	svc, err := NewSessionService(up, store, nil, nil, sessionConfig())
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	up := &fakeSessionUpstream{profile: &models.Profile{ID: 7, Username: "mika", Role: "admin"}}
	store := newFakeProfileStore()
	svc := newTestSessionService(t, up, store)

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "mika", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "/admin/dashboard", result.Redirect)
	assert.Equal(t, "mika", result.Profile.Username)

	claims, err := svc.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	stored, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "mika", stored.Username)
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	svc := newTestSessionService(t, &fakeSessionUpstream{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "x", Password: "short"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLoginMapsUpstreamRejection(t *testing.T) {
	up := &fakeSessionUpstream{loginErr: &upstream.Error{Status: 401, Message: "bad credentials"}}
	svc := newTestSessionService(t, up, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mika", Password: "wrong-pass"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	up := &fakeSessionUpstream{profile: &models.Profile{ID: 1, Username: "mika"}}
	svc := newTestSessionService(t, up, nil)

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "mika", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = svc.Validate(result.Token + "x")
	assert.Error(t, err)
}

func TestRememberCookieRoundTrip(t *testing.T) {
	svc := newTestSessionService(t, &fakeSessionUpstream{}, nil)

	sealed, err := svc.SealRemember(models.RememberedCredentials{Username: "mika", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotContains(t, sealed, "mika", "cookie value must not leak the username")
	assert.NotContains(t, sealed, "s3cret", "cookie value must not leak the password")

	creds, err := svc.OpenRemember(sealed)
	require.NoError(t, err)
	assert.Equal(t, "mika", creds.Username)
	assert.Equal(t, "s3cret!", creds.Password)
}

func TestRememberCookieRejectsTampering(t *testing.T) {
	svc := newTestSessionService(t, &fakeSessionUpstream{}, nil)

	sealed, err := svc.SealRemember(models.RememberedCredentials{Username: "mika", Password: "s3cret!"})
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.URLEncoding.EncodeToString(raw)

	_, err = svc.OpenRemember(tampered)
	assert.Error(t, err)

	_, err = svc.OpenRemember("not-base64!!!")
	assert.Error(t, err)
}

func TestLogoutDropsProfile(t *testing.T) {
	up := &fakeSessionUpstream{profile: &models.Profile{ID: 4, Username: "mika"}}
	store := newFakeProfileStore()
	svc := newTestSessionService(t, up, store)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mika", Password: "s3cret!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), 4))
	_, err = svc.Profile(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
