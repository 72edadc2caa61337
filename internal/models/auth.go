package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim.
const (
	TokenTypeLogin        = "login"
	TokenTypeRegistration = "registration"
)

// TokenClaims is the signed claim set carried by session tokens.
// The wire claim names (id, email, isAdmin) are the compact contract
// consumed by the HomeStock frontend.
type TokenClaims struct {
	Type    string `json:"type"`
	UserID  string `json:"id"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}
