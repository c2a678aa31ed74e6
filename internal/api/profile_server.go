package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/ratelimit"
	"github.com/shelfline/shelfline-server/internal/service"
)

// ProfileServer holds dependencies for the profile service HTTP handlers.
type ProfileServer struct {
	profileService *service.ProfileService
	loginLimiter   *ratelimit.KeyedRateLimiter
	router         *chi.Mux
	logger         *slog.Logger
}

// NewProfileServer creates the profile service HTTP server with all routes
// configured. loginLimiter throttles login attempts per client IP.
func NewProfileServer(profileService *service.ProfileService, loginLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *ProfileServer {
	s := &ProfileServer{
		profileService: profileService,
		loginLimiter:   loginLimiter,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *ProfileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *ProfileServer) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(corsHandler())
}

// setupRoutes configures all HTTP routes. Register and login are public;
// /user/me requires a bearer token.
func (s *ProfileServer) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Post("/register", s.handleRegister)
	s.router.Post("/login", s.handleLogin)

	s.router.Route("/user", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/me", s.handleGetCurrentUser)
	})
}

// handleHealthCheck reports service liveness.
func (s *ProfileServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, HealthBody{Status: "ok", Service: "profile-api"}, s.logger)
}
