package article

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/validate"
)

// ErrNotOwner signals a valid caller trying to mutate someone else's
// article. Distinct from not-found: existence is checked first.
var ErrNotOwner = errors.New("you can only modify your own articles")

const defaultPageSize = 10

// CreateInput carries a new article.
type CreateInput struct {
	Title     string
	Content   string
	AuthorID  int64
	BannerURL *string
}

// UpdateInput carries a sparse article update.
type UpdateInput struct {
	Title     *string
	Content   *string
	BannerURL *string
}

// Pagination describes a page of the article listing.
type Pagination struct {
	CurrentPage   int  `json:"current_page"`
	TotalPages    int  `json:"total_pages"`
	TotalArticles int  `json:"total_articles"`
	HasNext       bool `json:"has_next"`
	HasPrev       bool `json:"has_prev"`
}

// Service orchestrates article CRUD behind the ownership gate.
type Service struct {
	articles repository.ArticleRepository
	logger   *slog.Logger
}

// New constructs a Service.
func New(articles repository.ArticleRepository, logger *slog.Logger) Service {
	return Service{articles: articles, logger: logger}
}

// Create stores a new article for the calling author.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.Article, error) {
	if err := validate.ArticleCreate(in.Title, in.Content, in.AuthorID); err != nil {
		return nil, err
	}
	article := &domain.Article{
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  in.AuthorID,
		BannerURL: in.BannerURL,
	}
	if err := s.articles.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	s.logger.Info("article created", "article_id", article.ID, "author_id", article.AuthorID)
	return article, nil
}

// Get returns an article joined with its author.
func (s Service) Get(ctx context.Context, id int64) (*domain.ArticleWithAuthor, error) {
	return s.articles.GetArticleWithAuthor(ctx, id)
}

// List returns a page of articles, optionally filtered by a title
// substring search delegated to the database.
func (s Service) List(ctx context.Context, page, limit int, search string) ([]domain.ArticleWithAuthor, Pagination, error) {
	var (
		articles []domain.ArticleWithAuthor
		err      error
	)
	if search != "" {
		articles, err = s.articles.SearchArticlesByTitle(ctx, search)
	} else {
		articles, err = s.articles.ListArticles(ctx)
	}
	if err != nil {
		return nil, Pagination{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	total := len(articles)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pagination := Pagination{
		CurrentPage:   page,
		TotalPages:    (total + limit - 1) / limit,
		TotalArticles: total,
		HasNext:       end < total,
		HasPrev:       page > 1,
	}
	return articles[start:end], pagination, nil
}

// Recent returns the latest articles up to limit.
func (s Service) Recent(ctx context.Context, limit int) ([]domain.ArticleWithAuthor, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	return s.articles.ListRecentArticles(ctx, limit)
}

// ByAuthor returns the author's articles.
func (s Service) ByAuthor(ctx context.Context, authorID int64) ([]domain.ArticleWithAuthor, error) {
	return s.articles.ListArticlesByAuthor(ctx, authorID)
}

// Update applies a sparse update after existence and ownership checks, in
// that order.
func (s Service) Update(ctx context.Context, callerID, articleID int64, in UpdateInput) (*domain.Article, error) {
	if err := validate.ArticleUpdate(in.Title, in.Content); err != nil {
		return nil, err
	}
	if in.Title == nil && in.Content == nil && in.BannerURL == nil {
		return nil, validate.Error("no fields to update")
	}
	existing, err := s.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	patch := domain.ArticlePatch{Title: in.Title, Content: in.Content, BannerURL: in.BannerURL}
	updated, err := s.articles.UpdateArticle(ctx, articleID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article updated", "article_id", articleID, "author_id", callerID)
	return updated, nil
}

// Delete removes an article after existence and ownership checks.
func (s Service) Delete(ctx context.Context, callerID, articleID int64) error {
	existing, err := s.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return err
	}
	if existing.AuthorID != callerID {
		return ErrNotOwner
	}
	deleted, err := s.articles.DeleteArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("article %d not deleted", articleID)
	}
	s.logger.Info("article deleted", "article_id", articleID, "author_id", callerID)
	return nil
}
