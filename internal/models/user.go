package models

import (
	"time"
)

// Auth origins. The origin is fixed at account creation and gates which
// login and recovery flows the account may use.
const (
	AuthOriginPassword = "password"
	AuthOriginGoogle   = "google"
)

// DefaultGoogleName is used when Google claims carry no usable name.
const DefaultGoogleName = "Google User"

type User struct {
	ID            string
	Email         string
	FullName      string
	PasswordHash  string // empty for Google-origin accounts
	GoogleSubject string // empty for password-origin accounts
	AvatarURL     string
	IsAdmin       bool
	AuthOrigin    string // "password" or "google"
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsGoogleUser reports whether the account authenticates through Google.
func (u *User) IsGoogleUser() bool {
	return u.AuthOrigin == AuthOriginGoogle
}
