package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/auth"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/repository"
)

// Session is a signed-in user with their bearer token.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// AuthService is the Identity Provider: email and password accounts with
// fernet session tokens.
type AuthService struct {
	userRepo   *repository.UserRepository
	tokens     *auth.TokenIssuer
	workspaces *WorkspaceManager
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenIssuer, workspaces *WorkspaceManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		workspaces: workspaces,
		logger:     logger,
	}
}

// SignUp registers a new account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirm string) (Session, error) {
	if password != confirm {
		return Session{}, apperrors.ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.InsertUser(ctx, u); err != nil {
		return Session{}, err
	}
	s.logger.Info("user signed up", "user_id", u.ID)
	return s.issue(*u)
}

// SignIn checks the credentials and returns a new session. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return Session{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return Session{}, err
	}
	return s.issue(u)
}

// Authenticate returns the user ID carried by a bearer token.
func (s *AuthService) Authenticate(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Me returns the account of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// SignOut drops the user's workspace. Tokens are stateless and stay valid
// until they expire.
func (s *AuthService) SignOut(userID string) {
	s.workspaces.Evict(userID)
	s.logger.Info("user signed out", "user_id", userID)
}

func (s *AuthService) issue(u model.User) (Session, error) {
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue session: %w", err)
	}
	return Session{Token: tok, User: u}, nil
}
