package services

import (
	"context"
	"time"

	"github.com/homestock/auth-api/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc                   func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc                func(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrGoogleSubjectFunc func(ctx context.Context, email, subject string) (*models.User, error)
	ListFunc                      func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc                    func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateLastLoginFunc           func(ctx context.Context, id string, at time.Time) (*models.User, error)
	UpdateAvatarFunc              func(ctx context.Context, id, avatarURL string) error
	UpdatePasswordHashFunc        func(ctx context.Context, id, passwordHash string) error
	DeleteFunc                    func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmailOrGoogleSubject(ctx context.Context, email, subject string) (*models.User, error) {
	if m.GetByEmailOrGoogleSubjectFunc != nil {
		return m.GetByEmailOrGoogleSubjectFunc(ctx, email, subject)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error) {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(ctx, id, avatarURL)
	}
	return nil
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockIdentityVerifier implements IdentityVerifier for testing
type MockIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, credential string) (*IdentityClaims, error)
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, credential string) (*IdentityClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, credential)
	}
	return nil, models.ErrIdentityVerificationFailed
}

// MockMailSender implements MailSender for testing
type MockMailSender struct {
	SendRecoveryCodeFunc func(ctx context.Context, email, code string, expiresAt time.Time) error
}

func (m *MockMailSender) SendRecoveryCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	if m.SendRecoveryCodeFunc != nil {
		return m.SendRecoveryCodeFunc(ctx, email, code, expiresAt)
	}
	return nil
}

// NewTestUser constructs a password-origin test user
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:         id,
		Email:      email,
		FullName:   name,
		AuthOrigin: models.AuthOriginPassword,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestUserWithPassword creates a user with a hashed password
func NewTestUserWithPassword(id, email, name, passwordHash string) *models.User {
	user := NewTestUser(id, email, name)
	user.PasswordHash = passwordHash
	return user
}

// NewTestGoogleUser creates a Google-origin user
func NewTestGoogleUser(id, email, name, subject string) *models.User {
	user := NewTestUser(id, email, name)
	user.AuthOrigin = models.AuthOriginGoogle
	user.GoogleSubject = subject
	return user
}
