package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRow mirrors one account record.
type UserRow struct {
	UserID       uuid.UUID
	Email        pgtype.Text
	PasswordHash pgtype.Text
	DisplayName  string
	UserType     string
	CreatedAt    time.Time
}

// CreateUserParams holds the fields for a new account (registered or guest).
type CreateUserParams struct {
	Email        pgtype.Text
	PasswordHash pgtype.Text
	DisplayName  string
	UserType     string
}

// UserRepository provides account access.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, params CreateUserParams) (UserRow, error) {
	const q = `
		INSERT INTO users (email, password_hash, display_name, user_type)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, email, password_hash, display_name, user_type, created_at`

	var row UserRow
	err := r.pool.QueryRow(ctx, q, params.Email, params.PasswordHash, params.DisplayName, params.UserType).
		Scan(&row.UserID, &row.Email, &row.PasswordHash, &row.DisplayName, &row.UserType, &row.CreatedAt)
	if err != nil {
		return UserRow{}, fmt.Errorf("insert user: %w", err)
	}
	return row, nil
}

// GetByEmail looks up a registered account by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (UserRow, error) {
	const q = `
		SELECT user_id, email, password_hash, display_name, user_type, created_at
		FROM users WHERE email = $1`

	var row UserRow
	err := r.pool.QueryRow(ctx, q, email).
		Scan(&row.UserID, &row.Email, &row.PasswordHash, &row.DisplayName, &row.UserType, &row.CreatedAt)
	if err != nil {
		return UserRow{}, fmt.Errorf("get user by email: %w", err)
	}
	return row, nil
}

// GetByID looks up an account by id.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (UserRow, error) {
	const q = `
		SELECT user_id, email, password_hash, display_name, user_type, created_at
		FROM users WHERE user_id = $1`

	var row UserRow
	err := r.pool.QueryRow(ctx, q, userID).
		Scan(&row.UserID, &row.Email, &row.PasswordHash, &row.DisplayName, &row.UserType, &row.CreatedAt)
	if err != nil {
		return UserRow{}, fmt.Errorf("get user by id: %w", err)
	}
	return row, nil
}

// UpdateLastLogin stamps the most recent login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE user_id = $1`, userID)
	return err
}
