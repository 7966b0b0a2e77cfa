package user

import (
	"context"
	"errors"

	"log/slog"

	"github.com/blogartigo/api/internal/config"
	"github.com/blogartigo/api/internal/crypto"
	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/validate"
)

// ErrEmailTaken signals the requested email belongs to another account.
var ErrEmailTaken = errors.New("email already registered")

// UpdateInput carries a sparse profile update from the API layer.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Service manages user profiles.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.Config) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// Get returns a user by identifier.
func (s Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// List returns all users without password hashes.
func (s Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// UpdateProfile applies a sparse update to the caller's own profile.
// An update with no fields is rejected rather than silently read back;
// absent fields are never nulled.
func (s Service) UpdateProfile(ctx context.Context, id int64, in UpdateInput) (*domain.User, error) {
	if err := validate.ProfileUpdate(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Email == nil && in.Password == nil {
		return nil, validate.Error("no fields to update")
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return nil, err
	}
	patch := domain.UserPatch{Name: in.Name, Email: in.Email}
	if in.Email != nil {
		other, err := s.users.GetUserByEmail(ctx, *in.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}
	if in.Password != nil {
		hash, err := crypto.HashPassword(*in.Password, s.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		patch.PasswordHash = &hashed
	}
	updated, err := s.users.UpdateUser(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", id)
	return updated, nil
}
