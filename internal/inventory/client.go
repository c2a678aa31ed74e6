// Package inventory wraps calls to the external book/inventory service.
//
// The loan service treats the inventory service as best-effort: the existence
// check folds every failure into "book does not exist", and the availability
// signals are fire-and-forget. None of the methods return an error; that is
// the contract, not an accident. Failures are logged so operators can tell an
// outage apart from a genuinely unknown book.
package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is an HTTP client for the book/inventory service.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a new inventory client.
// baseURL is the service base address including any path prefix
// (e.g. "http://localhost:8001/api"). A non-positive timeout falls back
// to the default.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// CheckBookExists reports whether the inventory service knows the book.
// Only an explicit 200 from GET /book/{id} counts as existing; any transport
// error, timeout, or other status yields false. An unreachable inventory
// service is therefore indistinguishable from a missing book to callers.
func (c *Client) CheckBookExists(ctx context.Context, bookID string) bool {
	status, err := c.do(ctx, http.MethodGet, "/book/"+url.PathEscape(bookID))
	if err != nil {
		c.logger.Warn("inventory existence check failed",
			"book_id", bookID,
			"error", err,
		)
		return false
	}

	return status == http.StatusOK
}

// DecrementAvailability signals the inventory service that a copy went out.
// Single attempt, fire-and-forget: failures are logged and swallowed, and the
// containing operation proceeds as if the call had succeeded.
func (c *Client) DecrementAvailability(ctx context.Context, bookID string) {
	c.signal(ctx, bookID, "/book/decrement/")
}

// IncrementAvailability signals the inventory service that a copy came back.
// Same fire-and-forget policy as DecrementAvailability.
func (c *Client) IncrementAvailability(ctx context.Context, bookID string) {
	c.signal(ctx, bookID, "/book/increment/")
}

// signal issues a best-effort POST and drops any failure.
func (c *Client) signal(ctx context.Context, bookID, pathPrefix string) {
	status, err := c.do(ctx, http.MethodPost, pathPrefix+url.PathEscape(bookID))
	if err != nil {
		c.logger.Warn("inventory availability signal failed",
			"book_id", bookID,
			"path", pathPrefix,
			"error", err,
		)
		return
	}
	if status != http.StatusOK {
		c.logger.Warn("inventory availability signal rejected",
			"book_id", bookID,
			"path", pathPrefix,
			"status", status,
		)
	}
}

// do executes a single request and returns the response status.
// The response body is drained and discarded; only the status matters.
func (c *Client) do(ctx context.Context, method, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
