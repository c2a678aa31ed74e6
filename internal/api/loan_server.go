// Package api provides the HTTP servers and handlers for the Shelfline services.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/service"
)

// LoanServer holds dependencies for the loan service HTTP handlers.
type LoanServer struct {
	loanService *service.LoanService
	router      *chi.Mux
	logger      *slog.Logger
}

// NewLoanServer creates the loan service HTTP server with all routes configured.
func NewLoanServer(loanService *service.LoanService, logger *slog.Logger) *LoanServer {
	s := &LoanServer{
		loanService: loanService,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *LoanServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *LoanServer) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(corsHandler())
}

// setupRoutes configures all HTTP routes.
//
// The route shapes are part of the published contract: creation lives under
// the singular /loan prefix while return and lookup live under /loans.
// There is no auth on any of these endpoints.
func (s *LoanServer) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Post("/loan/create", s.handleCreateLoan)
	s.router.Route("/loans", func(r chi.Router) {
		r.Post("/return/{id}", s.handleReturnLoan)
		r.Get("/{id}", s.handleGetLoan)
	})
}

// handleHealthCheck reports service liveness.
func (s *LoanServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, HealthBody{Status: "ok", Service: "loan-api"}, s.logger)
}
