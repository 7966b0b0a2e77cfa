package domain

import "time"

// Article is authored content with an optional banner image. The author is
// fixed at creation and never changes.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	BannerURL *string   `json:"banner_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleWithAuthor is the read projection joining author details.
type ArticleWithAuthor struct {
	Article
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// ArticlePatch carries a sparse article update. Nil fields are left untouched.
type ArticlePatch struct {
	Title     *string
	Content   *string
	BannerURL *string
}

// Empty reports whether the patch carries no fields.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.BannerURL == nil
}
