package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRegistration(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{"valid", "a@b.com", "secret1", ""},
		{"missing email", "", "secret1", "email and password are required"},
		{"missing password", "a@b.com", "", "email and password are required"},
		{"bad email shape", "not-an-email", "secret1", "invalid email"},
		{"email with spaces", "a b@c.com", "secret1", "invalid email"},
		{"short password", "a@b.com", "12345", "password must be at least 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Registration(tc.email, tc.password)
			if tc.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantMsg)
		})
	}
}

func TestLoginAllowsShortPassword(t *testing.T) {
	assert.NoError(t, Login("a@b.com", "abc"))
	assert.EqualError(t, Login("", "abc"), "email and password are required")
	assert.EqualError(t, Login("nope", "abc"), "invalid email")
}

func TestArticleCreateTitleBoundary(t *testing.T) {
	content := strings.Repeat("x", 50)

	err := ArticleCreate("Hi", content, 1)
	assert.EqualError(t, err, "title must be at least 5 characters")

	assert.NoError(t, ArticleCreate("12345", content, 1))
}

func TestArticleCreate(t *testing.T) {
	longContent := strings.Repeat("x", 50)
	cases := []struct {
		name     string
		title    string
		content  string
		authorID int64
		wantMsg  string
	}{
		{"valid", "A fine title", longContent, 7, ""},
		{"missing title", "", longContent, 7, "title, content and author are required"},
		{"missing content", "A fine title", "", 7, "title, content and author are required"},
		{"missing author", "A fine title", longContent, 0, "title, content and author are required"},
		{"negative author", "A fine title", longContent, -3, "author must be a positive integer"},
		{"short content", "A fine title", strings.Repeat("x", 49), 7, "content must be at least 50 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ArticleCreate(tc.title, tc.content, tc.authorID)
			if tc.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantMsg)
		})
	}
}

func TestArticleUpdateSkipsAbsentFields(t *testing.T) {
	assert.NoError(t, ArticleUpdate(nil, nil))
	assert.NoError(t, ArticleUpdate(strPtr("12345"), nil))
	assert.EqualError(t, ArticleUpdate(strPtr("Hi"), nil), "title must be at least 5 characters")
	assert.EqualError(t, ArticleUpdate(nil, strPtr("too short")), "content must be at least 50 characters")
}

func TestProfileUpdate(t *testing.T) {
	assert.NoError(t, ProfileUpdate(nil, nil, nil))
	assert.EqualError(t, ProfileUpdate(strPtr("J"), nil, nil), "name must be at least 2 characters")
	assert.EqualError(t, ProfileUpdate(nil, strPtr("bad"), nil), "invalid email")
	assert.EqualError(t, ProfileUpdate(nil, nil, strPtr("12345")), "password must be at least 6 characters")
	assert.NoError(t, ProfileUpdate(strPtr("Jo"), strPtr("jo@b.com"), strPtr("secret1")))
}
