package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/api"
	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/ratelimit"
	"github.com/shelfline/shelfline-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideLoanHTTPServer provides the loan service HTTP server.
func ProvideLoanHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	loanService := do.MustInvoke[*service.LoanService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return startServer(i, api.NewLoanServer(loanService, log.Logger))
}

// ProvideProfileHTTPServer provides the profile service HTTP server.
func ProvideProfileHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	profileService := do.MustInvoke[*service.ProfileService](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return startServer(i, api.NewProfileServer(profileService, limiter, log.Logger))
}

// startServer builds the http.Server around the handler and starts it in the
// background.
func startServer(i do.Injector, handler http.Handler) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
