package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/homestock/auth-api/internal/models"
	"github.com/homestock/auth-api/internal/services"
	pkghttp "github.com/homestock/auth-api/pkg/http"
)

// AuthServiceInterface defines the interface for the authentication flows
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*services.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs. Field names are the wire contract.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Login handles password login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "User not found!")
		case errors.Is(err, models.ErrWrongAuthMethod):
			pkghttp.WriteBadRequest(w, "Please login using Google authentication")
		case errors.Is(err, models.ErrInvalidCredential):
			pkghttp.WriteBadRequest(w, "Incorrect password!")
		default:
			pkghttp.WriteInternalError(w, "Error logging in")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, authResp)
}

// GoogleLogin handles identity-provider login with a Google ID token
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.service.GoogleLogin(r.Context(), req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrIdentityVerificationFailed):
			pkghttp.WriteUnauthorized(w, "Google login failed. Please try again.")
		case errors.Is(err, models.ErrMissingEmailClaim):
			pkghttp.WriteBadRequest(w, "Email is missing from Google response")
		case errors.Is(err, models.ErrWrongAuthMethod):
			pkghttp.WriteBadRequest(w, "This email is registered with password authentication. Please login with your password.")
		default:
			pkghttp.WriteInternalError(w, "Error logging in")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, authResp)
}

// ForgotPassword issues and mails a recovery passcode
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "User not found!")
		case errors.Is(err, models.ErrRecoveryNotSupported):
			pkghttp.WriteBadRequest(w, "Google-authenticated users cannot reset password via OTP")
		case errors.Is(err, models.ErrNotificationDeliveryFailed):
			pkghttp.WriteErrorWithDetail(w, http.StatusInternalServerError, "Error sending OTP", err.Error())
		default:
			pkghttp.WriteInternalError(w, "Error sending OTP")
		}
		return
	}

	pkghttp.WriteMessage(w, "OTP sent successfully!")
}

// VerifyOTP checks a presented recovery passcode
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidOTP):
			pkghttp.WriteBadRequest(w, "Invalid OTP!")
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP has expired!")
		default:
			pkghttp.WriteInternalError(w, "Error verifying OTP")
		}
		return
	}

	pkghttp.WriteMessage(w, "OTP verified successfully!")
}

// ResetPassword replaces the password after a verified OTP
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrAccountNotFound):
			pkghttp.WriteNotFound(w, "User not found!")
		case errors.Is(err, models.ErrRecoveryNotSupported):
			pkghttp.WriteBadRequest(w, "Google-authenticated users cannot reset password")
		case errors.Is(err, models.ErrOTPNotVerified):
			pkghttp.WriteBadRequest(w, "OTP not verified!")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Error resetting password")
		default:
			// Password policy failures carry their own message
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteMessage(w, "Password reset successfully!")
}
