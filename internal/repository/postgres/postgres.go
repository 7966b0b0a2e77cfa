package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blogartigo/api/internal/domain"
	"github.com/blogartigo/api/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL. The pool is
// constructed by the caller and injected, never a package-level singleton.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository    = (*Repository)(nil)
	_ repository.ArticleRepository = (*Repository)(nil)
)

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return repository.ErrConflict
		case "23503":
			return repository.ErrNotFound
		}
	}
	return err
}

// CreateUser inserts a user and fills the server-assigned fields.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	row := r.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return translateError(err)
	}
	return nil
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// GetUserByEmail fetches a user by login handle.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1`
	row := r.pool.QueryRow(ctx, query, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// ListUsers returns all users newest first. Hashes are not selected.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id, name, email, created_at, updated_at
		FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies only the supplied fields. An empty patch is a no-op
// read-back; callers wanting to reject that decide above this layer.
func (r *Repository) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Email != nil {
		args = append(args, *patch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if patch.PasswordHash != nil {
		args = append(args, []byte(*patch.PasswordHash))
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetUserByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUser removes a user, reporting whether a row was actually removed.
func (r *Repository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateArticle inserts an article and fills the server-assigned fields.
func (r *Repository) CreateArticle(ctx context.Context, article *domain.Article) error {
	const query = `INSERT INTO articles (title, content, author_id, banner_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	row := r.pool.QueryRow(ctx, query, article.Title, article.Content, article.AuthorID, article.BannerURL)
	if err := row.Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return translateError(err)
	}
	return nil
}

// GetArticleByID fetches an article without the author projection.
func (r *Repository) GetArticleByID(ctx context.Context, id int64) (*domain.Article, error) {
	const query = `SELECT id, title, content, author_id, banner_url, created_at, updated_at
		FROM articles WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var a domain.Article
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.BannerURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

const articleWithAuthorColumns = `a.id, a.title, a.content, a.author_id, a.banner_url,
	a.created_at, a.updated_at, u.name, u.email`

func scanArticleWithAuthor(row pgx.Row) (*domain.ArticleWithAuthor, error) {
	var a domain.ArticleWithAuthor
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.AuthorID,
		&a.BannerURL,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.AuthorName,
		&a.AuthorEmail,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetArticleWithAuthor fetches an article joined with its author.
func (r *Repository) GetArticleWithAuthor(ctx context.Context, id int64) (*domain.ArticleWithAuthor, error) {
	query := `SELECT ` + articleWithAuthorColumns + `
		FROM articles a
		INNER JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`
	article, err := scanArticleWithAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return article, nil
}

func (r *Repository) queryArticlesWithAuthor(ctx context.Context, query string, args ...any) ([]domain.ArticleWithAuthor, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]domain.ArticleWithAuthor, 0)
	for rows.Next() {
		article, err := scanArticleWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

// ListArticles returns all articles with their authors, newest first.
func (r *Repository) ListArticles(ctx context.Context) ([]domain.ArticleWithAuthor, error) {
	query := `SELECT ` + articleWithAuthorColumns + `
		FROM articles a
		INNER JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC`
	return r.queryArticlesWithAuthor(ctx, query)
}

// ListArticlesByAuthor returns the author's articles newest first.
func (r *Repository) ListArticlesByAuthor(ctx context.Context, authorID int64) ([]domain.ArticleWithAuthor, error) {
	query := `SELECT ` + articleWithAuthorColumns + `
		FROM articles a
		INNER JOIN users u ON u.id = a.author_id
		WHERE a.author_id = $1
		ORDER BY a.created_at DESC`
	return r.queryArticlesWithAuthor(ctx, query, authorID)
}

// SearchArticlesByTitle performs a case-insensitive substring match.
func (r *Repository) SearchArticlesByTitle(ctx context.Context, term string) ([]domain.ArticleWithAuthor, error) {
	query := `SELECT ` + articleWithAuthorColumns + `
		FROM articles a
		INNER JOIN users u ON u.id = a.author_id
		WHERE a.title ILIKE '%' || $1 || '%'
		ORDER BY a.created_at DESC`
	return r.queryArticlesWithAuthor(ctx, query, term)
}

// ListRecentArticles returns the latest articles up to limit.
func (r *Repository) ListRecentArticles(ctx context.Context, limit int) ([]domain.ArticleWithAuthor, error) {
	query := `SELECT ` + articleWithAuthorColumns + `
		FROM articles a
		INNER JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC
		LIMIT $1`
	return r.queryArticlesWithAuthor(ctx, query, limit)
}

// UpdateArticle applies only the supplied fields. The author column is
// never part of the statement.
func (r *Repository) UpdateArticle(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Content != nil {
		args = append(args, *patch.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if patch.BannerURL != nil {
		args = append(args, *patch.BannerURL)
		sets = append(sets, fmt.Sprintf("banner_url = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetArticleByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE articles SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetArticleByID(ctx, id)
}

// DeleteArticle removes an article, reporting whether a row was removed.
func (r *Repository) DeleteArticle(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM articles WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() > 0, nil
}
