package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// UserRepository provides data access for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser stores a new user. Emails are compared case-insensitively;
// a taken email yields apperrors.ErrDuplicateEntry.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, created_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		strings.ToLower(u.Email),
		u.PasswordHash,
		formatTime(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicateEntry, u.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user registered with email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, "email = ?", strings.ToLower(email))
}

// GetUserByID returns the user with id.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (model.User, error) {
	query := `
        SELECT id, email, password_hash, created_at
        FROM users
        WHERE ` + where

	var u model.User
	var createdStr string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdStr)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
