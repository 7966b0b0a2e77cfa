package repository

import (
	"context"

	"github.com/blogartigo/api/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// ArticleRepository persists articles.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *domain.Article) error
	GetArticleByID(ctx context.Context, id int64) (*domain.Article, error)
	GetArticleWithAuthor(ctx context.Context, id int64) (*domain.ArticleWithAuthor, error)
	ListArticles(ctx context.Context) ([]domain.ArticleWithAuthor, error)
	ListArticlesByAuthor(ctx context.Context, authorID int64) ([]domain.ArticleWithAuthor, error)
	SearchArticlesByTitle(ctx context.Context, term string) ([]domain.ArticleWithAuthor, error)
	ListRecentArticles(ctx context.Context, limit int) ([]domain.ArticleWithAuthor, error)
	UpdateArticle(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	DeleteArticle(ctx context.Context, id int64) (bool, error)
}
