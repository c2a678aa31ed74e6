package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/service"
)

// RegisterResponse is the body for a successful registration.
type RegisterResponse struct {
	Message string            `json:"message"`
	Data    domain.PublicUser `json:"data"`
}

// LoginResponse is the body for a successful login.
type LoginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// UserBody wraps a user for lookup responses.
type UserBody struct {
	User domain.PublicUser `json:"user"`
}

// handleRegister creates a new user account.
func (s *ProfileServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.profileService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		Data:    user.Public(),
	}, s.logger)
}

// handleLogin authenticates a user and issues an access token. Attempts are
// throttled per client IP; chi's RealIP middleware has already resolved
// r.RemoteAddr behind proxies.
func (s *ProfileServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow(clientIP(r)) {
		response.TooManyRequests(w, "Too many login attempts, please try again later", s.logger)
		return
	}

	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.profileService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User.Public(),
	}, s.logger)
}

// handleGetCurrentUser returns the user the bearer token resolves to.
func (s *ProfileServer) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	response.JSON(w, http.StatusOK, UserBody{User: user.Public()}, s.logger)
}
