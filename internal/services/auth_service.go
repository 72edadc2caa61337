package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/homestock/auth-api/internal/auth"
	"github.com/homestock/auth-api/internal/models"
	"github.com/homestock/auth-api/internal/otp"
	pkgauth "github.com/homestock/auth-api/pkg/auth"
	pkglogger "github.com/homestock/auth-api/pkg/logger"
)

// UserRepository defines the persistence contract for account records
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrGoogleSubject(ctx context.Context, email, subject string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// AuthService orchestrates the four authentication flows: password login,
// Google login/linking, OTP recovery and password reset.
type AuthService struct {
	repo     UserRepository
	verifier IdentityVerifier
	mail     MailSender
	ledger   *otp.Ledger
	tm       *auth.TokenManager
	timing   *auth.TimingDelay
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger

	// accountLocks serializes account/challenge state transitions per
	// email. Never held across verifier or mail calls.
	accountLocks otp.KeyedMutex
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo UserRepository,
	verifier IdentityVerifier,
	mail MailSender,
	ledger *otp.Ledger,
	tm *auth.TokenManager,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		verifier: verifier,
		mail:     mail,
		ledger:   ledger,
		tm:       tm,
		timing:   timing,
		logger:   logger,
		audit:    audit,
	}
}

// UserResponse is the sanitized account projection returned to clients.
// It never carries the credential hash.
type UserResponse struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"isAdmin"`
	LastLogin    *time.Time `json:"lastLogin"`
	ProfilePic   string     `json:"profilePic"`
	IsGoogleUser bool       `json:"isGoogleUser"`
}

// AuthResponse is the success shape of the login flows
type AuthResponse struct {
	Token   string        `json:"token"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

// NormalizeEmail applies the fixed email case policy: lower-case, trimmed.
// Every lookup and every stored email goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates a password-origin account and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	start := time.Now()
	email = NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "account_not_found",
			})
			s.timing.WaitFrom(start, false)
			return nil, models.ErrAccountNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Google-origin accounts never reach the hash comparison
	if user.IsGoogleUser() {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "wrong_auth_method",
		})
		s.timing.WaitFrom(start, false)
		return nil, models.ErrWrongAuthMethod
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
		})
		s.timing.WaitFrom(start, false)
		return nil, models.ErrInvalidCredential
	}

	unlock := s.accountLocks.Lock(email)
	updated, err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now())
	unlock()
	if err != nil {
		s.logger.Error("failed to update last login", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user = updated

	token, err := s.tm.GenerateLoginToken(user)
	if err != nil {
		s.logger.Error("failed to generate login token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})
	s.timing.WaitFrom(start, true)

	return &AuthResponse{
		Token:   token,
		Message: "Login successful!",
		User:    userModelToResponse(user),
	}, nil
}

// GoogleLogin verifies a Google credential and logs in (or creates) the
// matching account. A password-origin account sharing the email is never
// converted; the flow fails instead.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*AuthResponse, error) {
	// Verification happens before any account lookup and outside any lock
	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		s.logger.Info("google credential verification failed", slog.Any("error", err))
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "google_login_failed",
			FailureReason: "verification_failed",
		})
		return nil, models.ErrIdentityVerificationFailed
	}

	if claims.Email == "" {
		return nil, models.ErrMissingEmailClaim
	}
	email := NormalizeEmail(claims.Email)

	unlock := s.accountLocks.Lock(email)
	defer unlock()

	user, err := s.repo.GetByEmailOrGoogleSubject(ctx, email, claims.Subject)
	switch {
	case errors.Is(err, models.ErrNotFound):
		fullName := strings.TrimSpace(claims.FullName)
		if fullName == "" {
			fullName = models.DefaultGoogleName
		}

		user, err = s.repo.Create(ctx, &models.User{
			Email:         email,
			FullName:      fullName,
			GoogleSubject: claims.Subject,
			AvatarURL:     claims.AvatarURL,
			AuthOrigin:    models.AuthOriginGoogle,
		})
		if err != nil {
			s.logger.Error("failed to create google account", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.audit.LogAccountAction("google_account_created", user.ID, "", nil)

	case err != nil:
		s.logger.Error("failed to resolve google account", slog.Any("error", err))
		return nil, models.ErrInternalServer

	case !user.IsGoogleUser():
		// An email held by a password account is never silently linked
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "google_login_failed",
			UserID:        user.ID,
			FailureReason: "wrong_auth_method",
		})
		return nil, models.ErrWrongAuthMethod

	default:
		// Avatar refresh is the only profile mutation this flow performs
		if claims.AvatarURL != "" && claims.AvatarURL != user.AvatarURL {
			if err := s.repo.UpdateAvatar(ctx, user.ID, claims.AvatarURL); err != nil {
				s.logger.Warn("failed to refresh avatar", slog.String("user_id", user.ID), slog.Any("error", err))
			} else {
				user.AvatarURL = claims.AvatarURL
			}
		}
	}

	user, err = s.repo.UpdateLastLogin(ctx, user.ID, time.Now())
	if err != nil {
		s.logger.Error("failed to update last login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateLoginToken(user)
	if err != nil {
		s.logger.Error("failed to generate login token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("google login", slog.String("user_id", user.ID))
	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "google_login_success",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResponse{
		Token:   token,
		Message: "Google login successful!",
		User:    userModelToResponse(user),
	}, nil
}

// RequestPasswordReset issues a fresh recovery passcode and mails it.
// Any prior challenge for the email is discarded, verified or not.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsGoogleUser() {
		s.audit.LogRecoveryEvent("otp_request_rejected", user.ID, false, "google_account")
		return models.ErrRecoveryNotSupported
	}

	unlock := s.accountLocks.Lock(email)
	challenge, err := s.ledger.Issue(email)
	unlock()
	if err != nil {
		s.logger.Error("failed to issue recovery passcode", slog.Any("error", err))
		return models.ErrInternalServer
	}

	// Mail dispatch runs outside the per-account lock. On failure the
	// challenge stays recorded; a retry may reuse it until expiry or a new
	// request overwrites it.
	if err := s.mail.SendRecoveryCode(ctx, email, challenge.Code, challenge.ExpiresAt); err != nil {
		s.audit.LogRecoveryEvent("otp_delivery_failed", user.ID, false, "mail_transport")
		return models.ErrNotificationDeliveryFailed
	}

	s.audit.LogRecoveryEvent("otp_issued", user.ID, true, "")
	return nil
}

// VerifyOTP checks a presented code against the outstanding challenge.
// Verification alone mutates no account state.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)

	err := s.ledger.Verify(email, code)
	switch {
	case errors.Is(err, models.ErrInvalidOTP):
		s.audit.LogRecoveryEvent("otp_verify_failed", "", false, "invalid_code")
	case errors.Is(err, models.ErrOTPExpired):
		s.audit.LogRecoveryEvent("otp_verify_failed", "", false, "expired")
	case err == nil:
		s.audit.LogRecoveryEvent("otp_verified", "", true, "")
	}
	return err
}

// ResetPassword replaces the credential hash of a password-origin account.
// Requires a verified outstanding challenge, which is consumed on success.
// No token is issued; the caller logs in afterward.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrAccountNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsGoogleUser() {
		return models.ErrRecoveryNotSupported
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	// Hash before taking the lock; bcrypt is deliberately slow
	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	unlock := s.accountLocks.Lock(email)
	defer unlock()

	if err := s.ledger.RequireVerified(email); err != nil {
		s.audit.LogRecoveryEvent("password_reset_rejected", user.ID, false, "otp_not_verified")
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		// Challenge left intact: nothing committed, the caller may retry
		s.logger.Error("failed to update password hash", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.ledger.Consume(email)

	s.audit.LogRecoveryEvent("password_reset", user.ID, true, "")
	s.logger.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// userModelToResponse converts an account record to its sanitized projection
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		LastLogin:    user.LastLoginAt,
		ProfilePic:   user.AvatarURL,
		IsGoogleUser: user.IsGoogleUser(),
	}
}
