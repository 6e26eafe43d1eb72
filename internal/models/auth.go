package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates an identity plus its role profile.
type RegisterRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Username   string   `json:"username" validate:"required,min=3"`
	Password   string   `json:"password" validate:"required,min=6"`
	Role       UserRole `json:"role" validate:"required"`
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	Program    string   `json:"program"`
	YearLevel  int      `json:"year_level" validate:"omitempty,min=1,max=6"`
	Department string   `json:"department"`
	IP         string   `json:"-"`
	UserAgent  string   `json:"-"`
}

// LoginRequest holds credentials for authenticating an identity.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// AuthResponse returns the issued token and identity info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated identity in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// MeResponse is the self-profile payload.
type MeResponse struct {
	User    UserInfo `json:"user"`
	Profile *Profile `json:"profile,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. Claims are hints
// only: every verified call re-resolves the identity from the store.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
