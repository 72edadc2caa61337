package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homestock/auth-api/internal/models"
)

// TokenManager mints and validates signed session tokens. Tokens are
// self-contained bearer credentials; no server-side session table exists.
type TokenManager struct {
	secret             string
	loginExpiry        time.Duration
	registrationExpiry time.Duration
}

// NewTokenManager creates a new TokenManager. Login tokens are short-lived;
// registration tokens use the longer expiry handed out at signup.
func NewTokenManager(secret string, loginExpiry, registrationExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:             secret,
		loginExpiry:        loginExpiry,
		registrationExpiry: registrationExpiry,
	}
}

func (tm *TokenManager) generate(user *models.User, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()

	claims := &models.TokenClaims{
		Type:    tokenType,
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// GenerateLoginToken creates the 1-hour token issued by the login flows.
func (tm *TokenManager) GenerateLoginToken(user *models.User) (string, error) {
	return tm.generate(user, models.TokenTypeLogin, tm.loginExpiry)
}

// GenerateRegistrationToken creates the long-lived token issued at signup.
func (tm *TokenManager) GenerateRegistrationToken(user *models.User) (string, error) {
	return tm.generate(user, models.TokenTypeRegistration, tm.registrationExpiry)
}

// ValidateToken verifies a token's signature and expiry and returns its claims.
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.Type == "" {
		return nil, fmt.Errorf("invalid token: missing type")
	}

	return claims, nil
}
