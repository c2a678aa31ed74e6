// Package response provides standardized HTTP response formatting and error handling utilities.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
)

// Body is the JSON shape for message-style responses.
// Errors is only populated for validation failures.
type Body struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON writes an arbitrary payload with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, which is fine for HTTP responses.
	if err := json.MarshalWrite(w, data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Message writes a {message} body with the given status code.
func Message(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, Body{Message: message}, logger)
}

// ValidationFailed writes a 422 response with field-level errors.
func ValidationFailed(w http.ResponseWriter, message string, fields any, logger *slog.Logger) {
	JSON(w, http.StatusUnprocessableEntity, Body{Message: message, Errors: fields}, logger)
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusBadRequest, message, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusUnauthorized, message, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusNotFound, message, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusTooManyRequests, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusInternalServerError, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors are mapped to their HTTP codes (validation errors carry field
// details); unknown errors become a generic 500 so internals never leak.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		if domainErr.Code == domainerrors.CodeValidation {
			ValidationFailed(w, domainErr.Message, domainErr.Details, logger)
			return
		}
		Message(w, domainErr.HTTPStatus(), domainErr.Message, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "Internal server error", logger)
}
