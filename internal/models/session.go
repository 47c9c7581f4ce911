package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the gateway-issued JWT claims for a logged-in
// portal user.
type SessionClaims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload relayed to the legacy login
// endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Remember bool   `json:"remember"`
}

// RegisterRequest covers the registration form. File parts (profile
// picture) pass through untouched; the legacy server validates them.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"required"`
	IDNumber        string `json:"id_number" validate:"required"`
	Department      string `json:"department" validate:"required"`
}

// RememberedCredentials are sealed into the remember-me cookie. The
// legacy client stored these in a plaintext cookie for 30 days.
type RememberedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResult is returned to the browser after a successful login.
type SessionResult struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	Profile   Profile `json:"profile"`
	Redirect  string  `json:"redirect"`
}
