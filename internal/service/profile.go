package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/store"
)

// ProfileService handles user registration, login and token verification.
type ProfileService struct {
	store  store.UserStore
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.UserStore, tokens *auth.TokenService, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterRequest contains the data for registering a user.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Address  string `json:"address" validate:"required"`
}

// LoginRequest contains the credentials for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Register validates the request, rejects duplicate emails, hashes the
// password and persists the user.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domainerrors.AlreadyExists("Email is already taken.")
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Lost the race between the pre-check and the insert.
			return nil, domainerrors.AlreadyExists("Email is already taken.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login verifies the credentials and issues an access token. An unknown email
// and a wrong password report the same message but keep distinct status codes,
// matching the published contract.
func (s *ProfileService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("Invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("Invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResult{Token: token, User: user}, nil
}

// VerifyAccessToken resolves a bearer token to the user it was issued for.
func (s *ProfileService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("Unauthenticated")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("Unauthenticated")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
