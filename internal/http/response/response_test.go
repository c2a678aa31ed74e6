package response

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()

	Message(w, http.StatusCreated, "Loan created successfully", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	body := decodeBody(t, w)
	assert.Equal(t, "Loan created successfully", body["message"])
	assert.NotContains(t, body, "errors")
}

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()

	ValidationFailed(w, "Validation failed", map[string]string{"user_id": "is required"}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "is required", errs["user_id"])
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domainerrors.NotFound("Loan not found"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Loan not found", decodeBody(t, w)["message"])
}

func TestHandleError_ValidationCarriesFields(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainerrors.ValidationWithDetails("Validation failed", map[string]string{"due_date": "is invalid"})

	HandleError(w, err, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	assert.NotNil(t, body["errors"])
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("return loan: %w", domainerrors.InvalidState("Book has already been returned or is not borrowed"))

	HandleError(w, err, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book has already been returned or is not borrowed", decodeBody(t, w)["message"])
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, fmt.Errorf("sqlite: disk I/O error"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal details must not leak.
	assert.Equal(t, "Internal server error", decodeBody(t, w)["message"])
}
