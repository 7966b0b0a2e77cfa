package auth

import (
	"context"
	"errors"
	"strings"

	"log/slog"

	"github.com/blogartigo/api/internal/config"
	"github.com/blogartigo/api/internal/crypto"
	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/token"
	"github.com/blogartigo/api/internal/validate"
)

var (
	// ErrEmailTaken signals the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown users and wrong passwords,
	// so callers learn nothing about which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles registration, login and token authorization.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.Config) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// Register creates an account and issues a token for it. The account starts
// with an empty display name.
func (s Service) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Registration(email, password); err != nil {
		return nil, "", err
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	hash, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Concurrent registration with the same email loses the insert race.
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	signed, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, signed, nil
}

// Login verifies credentials and issues a token.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Login(email, password); err != nil {
		return nil, "", err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	signed, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, signed, nil
}

// Authorize validates a bearer token and returns the associated user.
func (s Service) Authorize(ctx context.Context, tokenStr string) (*domain.User, error) {
	trimmed := strings.TrimSpace(tokenStr)
	if trimmed == "" {
		return nil, token.ErrInvalidToken
	}
	userID, err := token.Parse(trimmed, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}

func (s Service) issueToken(userID int64) (string, error) {
	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}
	return token.Issue(userID, s.cfg.JWTSecret, ttl)
}
