package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestock/auth-api/internal/models"
	"github.com/homestock/auth-api/internal/services"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

// ============================================================================
// Login
// ============================================================================

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				Token:   "jwt-token",
				Message: "Login successful!",
				User:    &services.UserResponse{ID: "user123", Email: email},
			}, nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "user@example.com",
		Password: "SecurePassword123",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp services.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "Login successful!", resp.Message)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestAuthHandler_Login_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"account not found", models.ErrAccountNotFound, http.StatusNotFound, "User not found!"},
		{"google account", models.ErrWrongAuthMethod, http.StatusBadRequest, "Please login using Google authentication"},
		{"wrong password", models.ErrInvalidCredential, http.StatusBadRequest, "Incorrect password!"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "Error logging in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockAuthService{
				LoginFunc: func(ctx context.Context, email, password string) (*services.AuthResponse, error) {
					return nil, tt.serviceErr
				},
			}
			handler := NewAuthHandler(mock)

			rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
				Email:    "user@example.com",
				Password: "SecurePassword123",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestAuthHandler_Login_RejectsInvalidBody(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_RejectsMissingFields(t *testing.T) {
	called := false
	mock := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.AuthResponse, error) {
			called = true
			return nil, nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Email: "user@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

// ============================================================================
// GoogleLogin
// ============================================================================

func TestAuthHandler_GoogleLogin_Success(t *testing.T) {
	mock := &MockAuthService{
		GoogleLoginFunc: func(ctx context.Context, credential string) (*services.AuthResponse, error) {
			assert.Equal(t, "google-id-token", credential)
			return &services.AuthResponse{
				Token:   "jwt-token",
				Message: "Google login successful!",
				User:    &services.UserResponse{ID: "user123", IsGoogleUser: true},
			}, nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.GoogleLogin, "/api/auth/google-login", GoogleLoginRequest{
		Credential: "google-id-token",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Google login successful!", decodeMessage(t, rec))
}

func TestAuthHandler_GoogleLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"verification failed", models.ErrIdentityVerificationFailed, http.StatusUnauthorized, "Google login failed. Please try again."},
		{"missing email claim", models.ErrMissingEmailClaim, http.StatusBadRequest, "Email is missing from Google response"},
		{"password account", models.ErrWrongAuthMethod, http.StatusBadRequest, "This email is registered with password authentication. Please login with your password."},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "Error logging in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockAuthService{
				GoogleLoginFunc: func(ctx context.Context, credential string) (*services.AuthResponse, error) {
					return nil, tt.serviceErr
				},
			}
			handler := NewAuthHandler(mock)

			rec := postJSON(t, handler.GoogleLogin, "/api/auth/google-login", GoogleLoginRequest{
				Credential: "google-id-token",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

// ============================================================================
// ForgotPassword
// ============================================================================

func TestAuthHandler_ForgotPassword_Success(t *testing.T) {
	mock := &MockAuthService{
		RequestPasswordResetFunc: func(ctx context.Context, email string) error {
			assert.Equal(t, "user@example.com", email)
			return nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "user@example.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent successfully!", decodeMessage(t, rec))
}

func TestAuthHandler_ForgotPassword_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"account not found", models.ErrAccountNotFound, http.StatusNotFound, "User not found!"},
		{"google account", models.ErrRecoveryNotSupported, http.StatusBadRequest, "Google-authenticated users cannot reset password via OTP"},
		{"delivery failed", models.ErrNotificationDeliveryFailed, http.StatusInternalServerError, "Error sending OTP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockAuthService{
				RequestPasswordResetFunc: func(ctx context.Context, email string) error {
					return tt.serviceErr
				},
			}
			handler := NewAuthHandler(mock)

			rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
				Email: "user@example.com",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestAuthHandler_ForgotPassword_DeliveryFailureCarriesDetail(t *testing.T) {
	mock := &MockAuthService{
		RequestPasswordResetFunc: func(ctx context.Context, email string) error {
			return models.ErrNotificationDeliveryFailed
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "user@example.com",
	})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

// ============================================================================
// VerifyOTP
// ============================================================================

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	mock := &MockAuthService{
		VerifyOTPFunc: func(ctx context.Context, email, code string) error {
			assert.Equal(t, "123456", code)
			return nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.VerifyOTP, "/api/auth/verify-otp", VerifyOTPRequest{
		Email: "user@example.com",
		OTP:   "123456",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP verified successfully!", decodeMessage(t, rec))
}

func TestAuthHandler_VerifyOTP_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"invalid code", models.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP!"},
		{"expired code", models.ErrOTPExpired, http.StatusBadRequest, "OTP has expired!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockAuthService{
				VerifyOTPFunc: func(ctx context.Context, email, code string) error {
					return tt.serviceErr
				},
			}
			handler := NewAuthHandler(mock)

			rec := postJSON(t, handler.VerifyOTP, "/api/auth/verify-otp", VerifyOTPRequest{
				Email: "user@example.com",
				OTP:   "123456",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestAuthHandler_VerifyOTP_RejectsMalformedCode(t *testing.T) {
	called := false
	mock := &MockAuthService{
		VerifyOTPFunc: func(ctx context.Context, email, code string) error {
			called = true
			return nil
		},
	}
	handler := NewAuthHandler(mock)

	tests := []string{"12345", "1234567", "abcdef", ""}
	for _, otp := range tests {
		rec := postJSON(t, handler.VerifyOTP, "/api/auth/verify-otp", VerifyOTPRequest{
			Email: "user@example.com",
			OTP:   otp,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "otp %q should be rejected", otp)
	}
	assert.False(t, called)
}

// ============================================================================
// ResetPassword
// ============================================================================

func TestAuthHandler_ResetPassword_Success(t *testing.T) {
	mock := &MockAuthService{
		ResetPasswordFunc: func(ctx context.Context, email, newPassword string) error {
			assert.Equal(t, "NewPassword456", newPassword)
			return nil
		},
	}
	handler := NewAuthHandler(mock)

	rec := postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Email:       "user@example.com",
		NewPassword: "NewPassword456",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successfully!", decodeMessage(t, rec))
}

func TestAuthHandler_ResetPassword_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"account not found", models.ErrAccountNotFound, http.StatusNotFound, "User not found!"},
		{"google account", models.ErrRecoveryNotSupported, http.StatusBadRequest, "Google-authenticated users cannot reset password"},
		{"unverified", models.ErrOTPNotVerified, http.StatusBadRequest, "OTP not verified!"},
		{"internal", models.ErrInternalServer, http.StatusInternalServerError, "Error resetting password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockAuthService{
				ResetPasswordFunc: func(ctx context.Context, email, newPassword string) error {
					return tt.serviceErr
				},
			}
			handler := NewAuthHandler(mock)

			rec := postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
				Email:       "user@example.com",
				NewPassword: "NewPassword456",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}
