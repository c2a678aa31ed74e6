package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// loanColumns is the ordered list of columns selected in loan queries.
// Must match the scan order in scanLoan.
const loanColumns = `id, user_id, book_id, borrowed_at, due_date, returned_at,
	status, created_at, updated_at`

// scanLoan scans a sql.Row (or sql.Rows via its Scan method) into a domain.Loan.
func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.Loan, error) {
	var l domain.Loan

	var (
		borrowedAt string
		dueDate    string
		returnedAt sql.NullString
		status     string
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&l.ID,
		&l.UserID,
		&l.BookID,
		&borrowedAt,
		&dueDate,
		&returnedAt,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.BorrowedAt, err = parseTime(borrowedAt); err != nil {
		return nil, err
	}
	if l.DueDate, err = parseTime(dueDate); err != nil {
		return nil, err
	}
	if l.ReturnedAt, err = parseNullableTime(returnedAt); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	l.Status = domain.LoanStatus(status)

	return &l, nil
}

// CreateLoan inserts a new loan row.
func (s *Store) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (
			id, user_id, book_id, borrowed_at, due_date, returned_at,
			status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID,
		loan.UserID,
		loan.BookID,
		formatTime(loan.BorrowedAt),
		formatTime(loan.DueDate),
		nullTimeString(loan.ReturnedAt),
		string(loan.Status),
		formatTime(loan.CreatedAt),
		formatTime(loan.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}

	return nil
}

// GetLoan returns the loan with the given ID, or store.ErrLoanNotFound.
func (s *Store) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLoanNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}

	return loan, nil
}

// UpdateLoan persists the mutable fields of an existing loan.
// This is a plain row update, not a compare-and-swap; concurrent returns of
// the same loan are not mutually excluded.
func (s *Store) UpdateLoan(ctx context.Context, loan *domain.Loan) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loans
		SET returned_at = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		nullTimeString(loan.ReturnedAt),
		string(loan.Status),
		formatTime(loan.UpdatedAt),
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loan rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrLoanNotFound
	}

	return nil
}
