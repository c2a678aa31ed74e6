package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/inventory"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// fakeInventory records the signals the loan service sends without talking to
// a real server.
type fakeInventory struct {
	exists     bool
	decrements atomic.Int32
	increments atomic.Int32
}

func (f *fakeInventory) CheckBookExists(ctx context.Context, bookID string) bool { return f.exists }
func (f *fakeInventory) DecrementAvailability(ctx context.Context, bookID string) {
	f.decrements.Add(1)
}
func (f *fakeInventory) IncrementAvailability(ctx context.Context, bookID string) {
	f.increments.Add(1)
}

func newTestLoanService(t *testing.T, inv Inventory) (*LoanService, *sqlite.Store) {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "loans.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return NewLoanService(s, inv, slog.New(slog.DiscardHandler)), s
}

func validCreateRequest() CreateLoanRequest {
	return CreateLoanRequest{
		UserID:     "user-1",
		BookID:     "book-1",
		BorrowedAt: "2026-08-01",
		DueDate:    "2026-08-15",
		Status:     "borrowed",
	}
}

func TestCreateLoan(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	loan, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(loan.ID, "loan-"))
	assert.Equal(t, "user-1", loan.UserID)
	assert.Equal(t, "book-1", loan.BookID)
	assert.Equal(t, domain.LoanStatusBorrowed, loan.Status)
	assert.Nil(t, loan.ReturnedAt)
	assert.False(t, loan.CreatedAt.IsZero())
	assert.Equal(t, int32(1), inv.decrements.Load())
}

func TestCreateLoan_ValidationFailure(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	tests := []struct {
		name   string
		mutate func(*CreateLoanRequest)
		field  string
	}{
		{"missing user_id", func(r *CreateLoanRequest) { r.UserID = "" }, "user_id"},
		{"missing book_id", func(r *CreateLoanRequest) { r.BookID = "" }, "book_id"},
		{"bad borrowed_at", func(r *CreateLoanRequest) { r.BorrowedAt = "01-08-2026" }, "borrowed_at"},
		{"bad due_date", func(r *CreateLoanRequest) { r.DueDate = "soon" }, "due_date"},
		{"bad status", func(r *CreateLoanRequest) { r.Status = "lost" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.CreateLoan(context.Background(), req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}

	// Inventory is never touched on validation failure.
	assert.Equal(t, int32(0), inv.decrements.Load())
}

func TestCreateLoan_DueDateBeforeBorrowedAt(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	req := validCreateRequest()
	req.BorrowedAt = "2026-08-15"
	req.DueDate = "2026-08-01"

	_, err := svc.CreateLoan(context.Background(), req)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, int32(0), inv.decrements.Load())
}

func TestCreateLoan_SameDayDueDateAllowed(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	req := validCreateRequest()
	req.BorrowedAt = "2026-08-01"
	req.DueDate = "2026-08-01"

	_, err := svc.CreateLoan(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateLoan_UnknownBook(t *testing.T) {
	inv := &fakeInventory{exists: false}
	svc, _ := newTestLoanService(t, inv)

	_, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.ErrorIs(t, err, domainerrors.ErrInvalidBook)
	assert.Equal(t, "Invalid book ID", err.Error())
	assert.Equal(t, int32(0), inv.decrements.Load())
}

func TestCreateLoan_InventoryDownMeansInvalidBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := inventory.New(srv.URL, time.Second, slog.New(slog.DiscardHandler))
	svc, _ := newTestLoanService(t, client)

	_, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.ErrorIs(t, err, domainerrors.ErrInvalidBook)
}

func TestCreateLoan_DecrementFailureStillSucceeds(t *testing.T) {
	var sawDecrement atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/book/decrement/") {
			sawDecrement.Store(true)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := inventory.New(srv.URL, time.Second, slog.New(slog.DiscardHandler))
	svc, s := newTestLoanService(t, client)

	loan, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.True(t, sawDecrement.Load())

	stored, err := s.GetLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, stored.ID)
}

func TestCreateLoan_CallerSuppliedReturnedStatus(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	req := validCreateRequest()
	req.Status = "returned"

	loan, err := svc.CreateLoan(context.Background(), req)
	require.NoError(t, err)

	// The status is taken verbatim and the decrement still fires.
	assert.Equal(t, domain.LoanStatusReturned, loan.Status)
	assert.Nil(t, loan.ReturnedAt)
	assert.Equal(t, int32(1), inv.decrements.Load())
}

func TestReturnLoan(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, s := newTestLoanService(t, inv)

	loan, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.NoError(t, err)

	returned, err := svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	assert.WithinDuration(t, time.Now(), *returned.ReturnedAt, time.Minute)
	assert.Equal(t, int32(1), inv.increments.Load())

	stored, err := s.GetLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, stored.Status)
	require.NotNil(t, stored.ReturnedAt)
}

func TestReturnLoan_NotFound(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	_, err := svc.ReturnLoan(context.Background(), "loan-missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, "Loan not found", err.Error())
	assert.Equal(t, int32(0), inv.increments.Load())
}

func TestReturnLoan_AlreadyReturned(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	loan, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.ReturnLoan(context.Background(), loan.ID)
	require.NoError(t, err)

	_, err = svc.ReturnLoan(context.Background(), loan.ID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
	assert.Equal(t, "Book has already been returned or is not borrowed", err.Error())

	// The second attempt never signals the increment.
	assert.Equal(t, int32(1), inv.increments.Load())
}

func TestGetLoan(t *testing.T) {
	inv := &fakeInventory{exists: true}
	svc, _ := newTestLoanService(t, inv)

	loan, err := svc.CreateLoan(context.Background(), validCreateRequest())
	require.NoError(t, err)

	got, err := svc.GetLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)

	_, err = svc.GetLoan(context.Background(), "loan-missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
