package article

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/validate"
)

type stubArticleRepo struct {
	nextID int64
	byID   map[int64]*domain.Article
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{byID: make(map[int64]*domain.Article)}
}

func (s *stubArticleRepo) CreateArticle(ctx context.Context, article *domain.Article) error {
	s.nextID++
	article.ID = s.nextID
	article.CreatedAt = time.Now().UTC()
	article.UpdatedAt = article.CreatedAt
	stored := *article
	s.byID[article.ID] = &stored
	return nil
}

func (s *stubArticleRepo) GetArticleByID(ctx context.Context, id int64) (*domain.Article, error) {
	if article, ok := s.byID[id]; ok {
		cp := *article
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubArticleRepo) GetArticleWithAuthor(ctx context.Context, id int64) (*domain.ArticleWithAuthor, error) {
	article, err := s.GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ArticleWithAuthor{Article: *article, AuthorName: "Author", AuthorEmail: "author@b.com"}, nil
}

func (s *stubArticleRepo) list(filter func(*domain.Article) bool) []domain.ArticleWithAuthor {
	out := make([]domain.ArticleWithAuthor, 0, len(s.byID))
	for _, article := range s.byID {
		if filter != nil && !filter(article) {
			continue
		}
		out = append(out, domain.ArticleWithAuthor{Article: *article, AuthorName: "Author", AuthorEmail: "author@b.com"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *stubArticleRepo) ListArticles(ctx context.Context) ([]domain.ArticleWithAuthor, error) {
	return s.list(nil), nil
}

func (s *stubArticleRepo) ListArticlesByAuthor(ctx context.Context, authorID int64) ([]domain.ArticleWithAuthor, error) {
	return s.list(func(a *domain.Article) bool { return a.AuthorID == authorID }), nil
}

func (s *stubArticleRepo) SearchArticlesByTitle(ctx context.Context, term string) ([]domain.ArticleWithAuthor, error) {
	lowered := strings.ToLower(term)
	return s.list(func(a *domain.Article) bool {
		return strings.Contains(strings.ToLower(a.Title), lowered)
	}), nil
}

func (s *stubArticleRepo) ListRecentArticles(ctx context.Context, limit int) ([]domain.ArticleWithAuthor, error) {
	all := s.list(nil)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *stubArticleRepo) UpdateArticle(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	article, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		article.Title = *patch.Title
	}
	if patch.Content != nil {
		article.Content = *patch.Content
	}
	if patch.BannerURL != nil {
		article.BannerURL = patch.BannerURL
	}
	article.UpdatedAt = time.Now().UTC()
	cp := *article
	return &cp, nil
}

func (s *stubArticleRepo) DeleteArticle(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func strPtr(s string) *string { return &s }

var longContent = strings.Repeat("conteudo ", 10)

func newTestService(repo *stubArticleRepo) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, log)
}

func seedArticle(t *testing.T, svc Service, authorID int64, title string) *domain.Article {
	t.Helper()
	article, err := svc.Create(context.Background(), CreateInput{
		Title:    title,
		Content:  longContent,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return article
}

func TestCreateRejectsShortTitle(t *testing.T) {
	svc := newTestService(newStubArticleRepo())

	var verr validate.Error
	_, err := svc.Create(context.Background(), CreateInput{Title: "Hi", Content: longContent, AuthorID: 1})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Title: "12345", Content: longContent, AuthorID: 1}); err != nil {
		t.Fatalf("five character title rejected: %v", err)
	}
}

func TestUpdateContentOnlyLeavesTitleUnchanged(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	article := seedArticle(t, svc, 1, "Original title")

	newContent := strings.Repeat("updated content ", 5)
	updated, err := svc.Update(context.Background(), 1, article.ID, UpdateInput{Content: &newContent})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Original title" {
		t.Fatalf("title changed to %q", updated.Title)
	}
	if updated.Content != newContent {
		t.Fatalf("content = %q, want %q", updated.Content, newContent)
	}
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	article := seedArticle(t, svc, 1, "Original title")

	var verr validate.Error
	_, err := svc.Update(context.Background(), 1, article.ID, UpdateInput{})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateNotFoundBeforeOwnership(t *testing.T) {
	svc := newTestService(newStubArticleRepo())

	_, err := svc.Update(context.Background(), 1, 42, UpdateInput{Title: strPtr("A new title")})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	article := seedArticle(t, svc, 1, "Original title")

	_, err := svc.Update(context.Background(), 2, article.ID, UpdateInput{Title: strPtr("Hijacked title")})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeleteByNonOwnerLeavesArticleRetrievable(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	article := seedArticle(t, svc, 1, "Original title")

	err := svc.Delete(context.Background(), 2, article.ID)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.Get(context.Background(), article.ID); err != nil {
		t.Fatalf("article no longer retrievable: %v", err)
	}
}

func TestDeleteByOwnerRemovesArticle(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	article := seedArticle(t, svc, 1, "Original title")

	if err := svc.Delete(context.Background(), 1, article.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), article.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListPaginates(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	for i := 0; i < 25; i++ {
		seedArticle(t, svc, 1, "Pagination sample title")
	}

	page, pagination, err := svc.List(context.Background(), 2, 10, "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page) != 10 {
		t.Fatalf("page size = %d, want 10", len(page))
	}
	if pagination.TotalArticles != 25 || pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", pagination)
	}
	if !pagination.HasNext || !pagination.HasPrev {
		t.Fatalf("expected both page links: %+v", pagination)
	}
}

func TestListSearchDelegatesSubstring(t *testing.T) {
	repo := newStubArticleRepo()
	svc := newTestService(repo)
	seedArticle(t, svc, 1, "Go concurrency patterns")
	seedArticle(t, svc, 1, "Cooking with cast iron")

	results, _, err := svc.List(context.Background(), 1, 10, "concurrency")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Go concurrency patterns" {
		t.Fatalf("unexpected search results: %+v", results)
	}
}
