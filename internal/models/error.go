package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication flow errors
	ErrAccountNotFound            = errors.New("account not found")
	ErrWrongAuthMethod            = errors.New("wrong authentication method for this account")
	ErrInvalidCredential          = errors.New("invalid credential")
	ErrIdentityVerificationFailed = errors.New("identity verification failed")
	ErrMissingEmailClaim          = errors.New("email claim missing from identity token")

	// Recovery flow errors
	ErrRecoveryNotSupported       = errors.New("password recovery not supported for this account")
	ErrInvalidOTP                 = errors.New("invalid otp")
	ErrOTPExpired                 = errors.New("otp has expired")
	ErrOTPNotVerified             = errors.New("otp not verified")
	ErrNotificationDeliveryFailed = errors.New("failed to deliver notification")
)
