package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homestock/auth-api/internal/database"
	"github.com/homestock/auth-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, full_name, password_hash, google_subject, avatar_url, is_admin, auth_origin, last_login_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable columns and populates a User model
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var passwordHash, googleSubject, avatarURL *string
	var lastLoginAt *time.Time

	err := scanner.Scan(
		&user.ID, &user.Email, &user.FullName, &passwordHash,
		&googleSubject, &avatarURL, &user.IsAdmin, &user.AuthOrigin,
		&lastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if googleSubject != nil {
		user.GoogleSubject = *googleSubject
	}
	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}
	user.LastLoginAt = lastLoginAt

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// GetByEmailOrGoogleSubject resolves an account by either identity key in a
// single disjunctive query. A Google account may be found by subject after
// an email change at the provider, or by email after a subject rotation.
func (r *UserRepository) GetByEmailOrGoogleSubject(ctx context.Context, email, subject string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR google_subject = $2`

	return scanUserRow(r.pool.QueryRow(ctx, query, email, subject))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.AuthOrigin == "" {
		user.AuthOrigin = models.AuthOriginPassword
	}

	query := `
		INSERT INTO users (id, email, full_name, password_hash, google_subject, avatar_url, is_admin, auth_origin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	var passwordHash, googleSubject *string
	if user.PasswordHash != "" {
		passwordHash = &user.PasswordHash
	}
	if user.GoogleSubject != "" {
		googleSubject = &user.GoogleSubject
	}

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.FullName, passwordHash, googleSubject,
		user.AvatarURL, user.IsAdmin, user.AuthOrigin,
		user.CreatedAt, user.UpdatedAt,
	))
}

// UpdateLastLogin stamps a successful authentication of any kind.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) (*models.User, error) {
	query := `
		UPDATE users SET last_login_at = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, at, time.Now(), id))
}

// UpdateAvatar refreshes the avatar URL from identity-provider claims.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	query := `UPDATE users SET avatar_url = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, avatarURL, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential hash after a reset.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
