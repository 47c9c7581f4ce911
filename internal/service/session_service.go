package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	"github.com/noah-isme/orgportal-gateway/pkg/config"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
)

type sessionUpstream interface {
	Login(ctx context.Context, username, password string) (*models.Profile, error)
	Register(ctx context.Context, fields map[string]string, files []upstream.FilePart) error
}

type profileStore interface {
	Get(ctx context.Context, userID int) (*models.Profile, error)
	Set(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, userID int) error
}

// SessionService proxies authentication to the legacy endpoints and
// issues gateway-local JWTs. The remember-me cookie is sealed with
// secretbox instead of the plaintext cookie the old client set.
type SessionService struct {
	upstream  sessionUpstream
	profiles  profileStore
	validator *validator.Validate
	logger    *zap.Logger
	config    config.SessionConfig

	rememberKey [32]byte
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(up sessionUpstream, profiles profileStore, validate *validator.Validate, logger *zap.Logger, cfg config.SessionConfig) (*SessionService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if len(cfg.RememberSecret) < 32 {
		return nil, fmt.Errorf("remember secret must be at least 32 bytes")
	}

	s := &SessionService{
		upstream:  up,
		profiles:  profiles,
		validator: validate,
		logger:    logger,
		config:    cfg,
	}
	copy(s.rememberKey[:], cfg.RememberSecret)
	return s, nil
}

// Login relays credentials to the legacy login endpoint and mints a
// session token for the returned profile.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	profile, err := s.upstream.Login(ctx, req.Username, req.Password)
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) && (ue.Status == 401 || ue.Status == 403) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "login relay failed")
	}

	if s.profiles != nil {
		if err := s.profiles.Set(ctx, profile); err != nil {
			s.logger.Warn("failed to store profile", zap.Int("user_id", profile.ID), zap.Error(err))
		}
	}

	expiresAt := time.Now().UTC().Add(s.config.Expiration)
	token, err := s.issueToken(profile, expiresAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	return &models.SessionResult{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Profile:   *profile,
		Redirect:  redirectFor(profile.Role),
	}, nil
}

// Register relays the registration form to the legacy endpoint.
func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest, picture *upstream.FilePart) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	fields := map[string]string{
		"username":         req.Username,
		"email":            req.Email,
		"password":         req.Password,
		"confirm_password": req.ConfirmPassword,
		"full_name":        req.FullName,
		"id_number":        req.IDNumber,
		"department":       req.Department,
	}
	var files []upstream.FilePart
	if picture != nil {
		files = append(files, *picture)
	}

	if err := s.upstream.Register(ctx, fields, files); err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) && ue.Status == 409 {
			return appErrors.Clone(appErrors.ErrConflict, "username or email already taken")
		}
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "registration relay failed")
	}
	return nil
}

// Validate parses and verifies a session token.
func (s *SessionService) Validate(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}

// Profile loads the stored display profile for a user.
func (s *SessionService) Profile(ctx context.Context, userID int) (*models.Profile, error) {
	if s.profiles == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "profile store unavailable")
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found, log in again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Logout drops the stored profile.
func (s *SessionService) Logout(ctx context.Context, userID int) error {
	if s.profiles == nil {
		return nil
	}
	return s.profiles.Delete(ctx, userID)
}

// SealRemember encrypts credentials for the remember-me cookie.
func (s *SessionService) SealRemember(creds models.RememberedCredentials) (string, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("marshal remembered credentials: %w", err)
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], payload, &nonce, &s.rememberKey)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// OpenRemember decrypts a remember-me cookie value. Tampered or
// truncated values fail closed.
func (s *SessionService) OpenRemember(value string) (*models.RememberedCredentials, error) {
	sealed, err := base64.URLEncoding.DecodeString(value)
	if err != nil || len(sealed) < 24 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "malformed remember cookie")
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	payload, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.rememberKey)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid remember cookie")
	}

	var creds models.RememberedCredentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid remember cookie")
	}
	return &creds, nil
}

// RememberTTL exposes the configured cookie lifetime.
func (s *SessionService) RememberTTL() time.Duration {
	return s.config.RememberTTL
}

func (s *SessionService) issueToken(profile *models.Profile, expiresAt time.Time) (string, error) {
	claims := models.SessionClaims{
		UserID:   profile.ID,
		Username: profile.Username,
		Role:     profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.Username,
			Issuer:    "orgportal-gateway",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

// redirectFor picks the landing route by role, mirroring the
// role-based redirects of the portal login page.
func redirectFor(role string) string {
	switch role {
	case "admin":
		return "/admin/dashboard"
	case "adviser":
		return "/adviser/dashboard"
	default:
		return "/member/dashboard"
	}
}
