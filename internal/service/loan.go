// Package service contains the business logic of the Shelfline services.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/store"
)

// dateLayout is the wire format for loan dates.
const dateLayout = "2006-01-02"

// Inventory is the loan service's view of the external book/inventory service.
// None of the methods return errors: the existence check folds failures into
// false, and the availability signals are fire-and-forget.
type Inventory interface {
	CheckBookExists(ctx context.Context, bookID string) bool
	DecrementAvailability(ctx context.Context, bookID string)
	IncrementAvailability(ctx context.Context, bookID string)
}

// LoanService orchestrates the loan lifecycle: creation against the inventory
// service, and the single borrowed -> returned transition.
type LoanService struct {
	store     store.LoanStore
	inventory Inventory
	logger    *slog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(store store.LoanStore, inventory Inventory, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:     store,
		inventory: inventory,
		logger:    logger,
	}
}

// CreateLoanRequest contains the data for creating a loan.
//
// Status is caller-supplied and may be "returned", which creates a loan that
// was never borrowed as far as inventory is concerned. That looseness is part
// of the published API contract and is kept as-is.
type CreateLoanRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	BookID     string `json:"book_id" validate:"required"`
	BorrowedAt string `json:"borrowed_at" validate:"required,datetime=2006-01-02"`
	DueDate    string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=borrowed returned"`
}

// CreateLoan validates the request, checks the book with the inventory
// service, persists the loan, and signals the inventory decrement.
//
// Ordering is fixed: existence check before persistence, persistence before
// the decrement signal. The decrement is best-effort; once the loan row is
// written the operation reports success no matter what inventory does.
func (s *LoanService) CreateLoan(ctx context.Context, req CreateLoanRequest) (*domain.Loan, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	borrowedAt, err := time.Parse(dateLayout, req.BorrowedAt)
	if err != nil {
		// Unreachable after validation; belt and braces for direct callers.
		return nil, domainerrors.ValidationWithDetails("Validation failed",
			map[string]string{"borrowed_at": "must be a valid date in format " + dateLayout})
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("Validation failed",
			map[string]string{"due_date": "must be a valid date in format " + dateLayout})
	}

	if dueDate.Before(borrowedAt) {
		return nil, domainerrors.ValidationWithDetails("Validation failed",
			map[string]string{"due_date": "must be greater than or equal to borrowed_at"})
	}

	if !s.inventory.CheckBookExists(ctx, req.BookID) {
		return nil, domainerrors.InvalidBook("Invalid book ID")
	}

	loanID, err := id.Generate("loan")
	if err != nil {
		return nil, fmt.Errorf("generate loan ID: %w", err)
	}

	loan := &domain.Loan{
		ID:         loanID,
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowedAt: borrowedAt,
		DueDate:    dueDate,
		Status:     domain.LoanStatus(req.Status),
	}
	loan.InitTimestamps()

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.inventory.DecrementAvailability(ctx, req.BookID)

	s.logger.Info("loan created",
		"loan_id", loan.ID,
		"user_id", loan.UserID,
		"book_id", loan.BookID,
		"status", loan.Status,
	)

	return loan, nil
}

// ReturnLoan transitions a borrowed loan to returned and signals the
// inventory increment.
//
// The status check and the write are not mutually excluded: two concurrent
// returns of the same loan can both pass the check and double-signal the
// increment. The published contract tolerates this; callers retry returns
// freely.
func (s *LoanService) ReturnLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return nil, domainerrors.NotFound("Loan not found")
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}

	if !loan.IsBorrowed() {
		return nil, domainerrors.InvalidState("Book has already been returned or is not borrowed")
	}

	loan.MarkReturned(time.Now())

	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}

	s.inventory.IncrementAvailability(ctx, loan.BookID)

	s.logger.Info("loan returned",
		"loan_id", loan.ID,
		"book_id", loan.BookID,
	)

	return loan, nil
}

// GetLoan returns the loan with the given ID.
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return nil, domainerrors.NotFound("Loan not found")
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}
