package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// IdentityClaims are the verified claims extracted from a provider credential.
type IdentityClaims struct {
	Subject   string
	Email     string
	FullName  string
	AvatarURL string
}

// IdentityVerifier validates an externally issued identity credential and
// yields verified claims, or fails. Modeled as a single-method interface so
// tests run without network access.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*IdentityClaims, error)
}

// GoogleVerifier validates Google ID tokens against the configured client ID.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a verifier for the given OAuth client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates the ID token signature, audience and expiry, then pulls
// the profile claims. Name falls back to given_name + family_name when the
// aggregate claim is absent.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*IdentityClaims, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("id token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if name == "" {
		givenName, _ := payload.Claims["given_name"].(string)
		familyName, _ := payload.Claims["family_name"].(string)
		name = strings.TrimSpace(givenName + " " + familyName)
	}

	return &IdentityClaims{
		Subject:   payload.Subject,
		Email:     email,
		FullName:  name,
		AvatarURL: picture,
	}, nil
}
