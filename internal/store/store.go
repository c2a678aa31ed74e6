// Package store defines the persistence interfaces and errors for the Shelfline services.
package store

import (
	"context"
	"errors"

	"github.com/shelfline/shelfline-server/internal/domain"
)

// Sentinel errors returned by store implementations.
var (
	// ErrLoanNotFound is returned when a loan lookup matches no row.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrUserNotFound is returned when a user lookup matches no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when creating a user with a taken email.
	ErrEmailExists = errors.New("email already exists")
)

// LoanStore is the persistence surface of the loan service.
// Each call is atomic on its own; there are no cross-call transactions.
type LoanStore interface {
	// CreateLoan persists a new loan. The caller supplies the ID and timestamps.
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	// GetLoan returns the loan with the given ID, or ErrLoanNotFound.
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	// UpdateLoan persists the mutable fields of an existing loan.
	// It is a plain row update: the last writer wins.
	UpdateLoan(ctx context.Context, loan *domain.Loan) error
}

// UserStore is the persistence surface of the profile service.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrEmailExists if the email
	// is already registered (case-insensitive).
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUser returns the user with the given ID, or ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail returns the user with the given email (case-insensitive),
	// or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
