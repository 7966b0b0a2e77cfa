package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/blogartigo/api/internal/config"
	"github.com/blogartigo/api/internal/crypto"
	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/validate"
)

type stubUserRepo struct {
	byID map[int64]*domain.User
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{byID: make(map[int64]*domain.User)}
	for i := range users {
		u := users[i]
		repo.byID[u.ID] = &u
	}
	return repo
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	s.byID[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if user, ok := s.byID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.byID {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = []byte(*patch.PasswordHash)
	}
	user.UpdatedAt = time.Now().UTC()
	cp := *user
	return &cp, nil
}

func (s *stubUserRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func strPtr(s string) *string { return &s }

func newTestService(repo *stubUserRepo) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, log, config.Config{})
}

func TestUpdateProfileRejectsEmptyPatch(t *testing.T) {
	repo := newStubUserRepo(domain.User{ID: 1, Email: "a@b.com"})
	svc := newTestService(repo)

	var verr validate.Error
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateInput{})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Error() != "no fields to update" {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestUpdateProfilePartialNameLeavesEmail(t *testing.T) {
	repo := newStubUserRepo(domain.User{ID: 1, Name: "Old", Email: "a@b.com"})
	svc := newTestService(repo)

	updated, err := svc.UpdateProfile(context.Background(), 1, UpdateInput{Name: strPtr("New Name")})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("name = %q, want %q", updated.Name, "New Name")
	}
	if updated.Email != "a@b.com" {
		t.Fatalf("email changed to %q", updated.Email)
	}
}

func TestUpdateProfileRejectsEmailOfAnotherUser(t *testing.T) {
	repo := newStubUserRepo(
		domain.User{ID: 1, Email: "a@b.com"},
		domain.User{ID: 2, Email: "b@b.com"},
	)
	svc := newTestService(repo)

	_, err := svc.UpdateProfile(context.Background(), 1, UpdateInput{Email: strPtr("b@b.com")})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateProfileAllowsKeepingOwnEmail(t *testing.T) {
	repo := newStubUserRepo(domain.User{ID: 1, Email: "a@b.com"})
	svc := newTestService(repo)

	if _, err := svc.UpdateProfile(context.Background(), 1, UpdateInput{Email: strPtr("a@b.com")}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	repo := newStubUserRepo(domain.User{ID: 1, Email: "a@b.com"})
	svc := newTestService(repo)

	updated, err := svc.UpdateProfile(context.Background(), 1, UpdateInput{Password: strPtr("newsecret")})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if string(updated.PasswordHash) == "newsecret" {
		t.Fatal("password stored as plaintext")
	}
	if !crypto.VerifyPassword(updated.PasswordHash, "newsecret") {
		t.Fatal("stored hash does not verify")
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	_, err := svc.UpdateProfile(context.Background(), 99, UpdateInput{Name: strPtr("Anyone")})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
