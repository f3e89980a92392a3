package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// UserRepository is the SQLite implementation of the user store and the
// quota ledger.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository on an open database.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, is_active, storage_used, storage_limit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive,
		user.StorageLimit, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email already taken: %w", entities.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted user id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg interface{}) (*entities.User, error) {
	var user entities.User
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, is_active, storage_used, storage_limit, created_at, updated_at, last_login
		FROM users WHERE `+where, arg,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsActive, &user.StorageUsed, &user.StorageLimit,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, email string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET email = ?, updated_at = ? WHERE id = ?",
		email, time.Now().UTC(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email already taken: %w", entities.ErrConflict)
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	return err
}

// ReserveQuota commits the debit and the limit check in one statement.
// The guard in the WHERE clause is what makes concurrent reservations
// safe: a second upload racing this one sees the already-incremented
// counter and fails the guard instead of double-passing a stale check.
func (r *UserRepository) ReserveQuota(ctx context.Context, id int64, bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("negative reservation: %w", entities.ErrInvalidInput)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET storage_used = storage_used + ?, updated_at = ?
		WHERE id = ? AND storage_used + ? <= storage_limit`,
		bytes, time.Now().UTC(), id, bytes,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve quota: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the user is gone or the reservation does not fit.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return entities.ErrQuotaExceeded
	}
	return nil
}

// ReleaseQuota floors at zero so a double release or a desynced counter
// can never drive storage_used negative.
func (r *UserRepository) ReleaseQuota(ctx context.Context, id int64, bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("negative release: %w", entities.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET storage_used = MAX(0, storage_used - ?), updated_at = ?
		WHERE id = ?`,
		bytes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrNotFound
	}
	return nil
}
