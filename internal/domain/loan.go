// Package domain defines the core entities shared by the Shelfline services.
package domain

import "time"

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	// LoanStatusBorrowed indicates the book is currently out.
	LoanStatusBorrowed LoanStatus = "borrowed"
	// LoanStatusReturned indicates the book has come back. Terminal.
	LoanStatusReturned LoanStatus = "returned"
)

// Valid reports whether the status is a known loan status.
func (s LoanStatus) Valid() bool {
	return s == LoanStatusBorrowed || s == LoanStatusReturned
}

// Loan represents one borrowing event: one user taking out one book.
//
// Invariant: Status == returned iff ReturnedAt is non-nil. The only legal
// transition is borrowed -> returned, via MarkReturned; returned is terminal.
// Loans are never deleted.
type Loan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	Status     LoanStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsBorrowed reports whether the loan can still be returned.
func (l *Loan) IsBorrowed() bool {
	return l.Status == LoanStatusBorrowed
}

// MarkReturned transitions the loan to returned at the given time.
// Callers must check IsBorrowed first; MarkReturned does not re-validate.
func (l *Loan) MarkReturned(now time.Time) {
	l.ReturnedAt = &now
	l.Status = LoanStatusReturned
	l.UpdatedAt = now
}

// InitTimestamps sets CreatedAt and UpdatedAt to now.
// Call this when creating a new loan.
func (l *Loan) InitTimestamps() {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
}
