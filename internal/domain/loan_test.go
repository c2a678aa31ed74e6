package domain

import (
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanStatus_Valid(t *testing.T) {
	assert.True(t, LoanStatusBorrowed.Valid())
	assert.True(t, LoanStatusReturned.Valid())
	assert.False(t, LoanStatus("lost").Valid())
	assert.False(t, LoanStatus("").Valid())
}

func TestLoan_MarkReturned(t *testing.T) {
	borrowed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := &Loan{
		ID:         "loan-1",
		UserID:     "u1",
		BookID:     "b1",
		BorrowedAt: borrowed,
		DueDate:    borrowed.AddDate(0, 0, 14),
		Status:     LoanStatusBorrowed,
	}
	require.True(t, loan.IsBorrowed())

	now := time.Now()
	loan.MarkReturned(now)

	assert.Equal(t, LoanStatusReturned, loan.Status)
	require.NotNil(t, loan.ReturnedAt)
	assert.Equal(t, now, *loan.ReturnedAt)
	assert.True(t, loan.ReturnedAt.After(loan.BorrowedAt) || loan.ReturnedAt.Equal(loan.BorrowedAt))
	assert.False(t, loan.IsBorrowed())
}

func TestLoan_ReturnedAtSerializesAsNull(t *testing.T) {
	loan := &Loan{ID: "loan-1", Status: LoanStatusBorrowed}

	data, err := json.Marshal(loan)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"returned_at":null`)
}
