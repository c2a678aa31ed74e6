package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, address, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Address,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user row.
// Returns store.ErrEmailExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	emailLower := strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, email_lower, password_hash, address,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		emailLower,
		user.PasswordHash,
		user.Address,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		// The unique index on email_lower is the only constraint that can
		// fire here for well-formed input.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetUser returns the user with the given ID, or store.ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// GetUserByEmail returns the user with the given email (case-insensitive),
// or store.ErrUserNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	emailLower := strings.ToLower(strings.TrimSpace(email))

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, emailLower)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}
