package handlers

import (
	"context"

	"github.com/homestock/auth-api/internal/services"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	GoogleLoginFunc          func(ctx context.Context, credential string) (*services.AuthResponse, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	VerifyOTPFunc            func(ctx context.Context, email, code string) error
	ResetPasswordFunc        func(ctx context.Context, email, newPassword string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockAuthService) GoogleLogin(ctx context.Context, credential string) (*services.AuthResponse, error) {
	if m.GoogleLoginFunc != nil {
		return m.GoogleLoginFunc(ctx, credential)
	}
	return nil, nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, newPassword)
	}
	return nil
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	RegisterFunc func(ctx context.Context, fullName, email, password string) (*services.RegisterResponse, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockUserService) Register(ctx context.Context, fullName, email, password string) (*services.RegisterResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, fullName, email, password)
	}
	return nil, nil
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*services.UserResponse{}, nil
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
