// Package validate holds the payload checks that run before any
// persistence call. Checks are pure and stop at the first failing rule.
package validate

import "regexp"

// Error is a client-input failure with a human-readable message.
type Error string

func (e Error) Error() string { return string(e) }

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 6
	minNameLen     = 2
	minTitleLen    = 5
	minContentLen  = 50
)

// Registration checks a signup payload.
func Registration(email, password string) error {
	if email == "" || password == "" {
		return Error("email and password are required")
	}
	if !emailRx.MatchString(email) {
		return Error("invalid email")
	}
	if len(password) < minPasswordLen {
		return Error("password must be at least 6 characters")
	}
	return nil
}

// Login checks a login payload. No password length rule: a short stored
// password must still be allowed to attempt login.
func Login(email, password string) error {
	if email == "" || password == "" {
		return Error("email and password are required")
	}
	if !emailRx.MatchString(email) {
		return Error("invalid email")
	}
	return nil
}

// ArticleCreate checks a new article payload.
func ArticleCreate(title, content string, authorID int64) error {
	if title == "" || content == "" || authorID == 0 {
		return Error("title, content and author are required")
	}
	if len(title) < minTitleLen {
		return Error("title must be at least 5 characters")
	}
	if len(content) < minContentLen {
		return Error("content must be at least 50 characters")
	}
	if authorID < 0 {
		return Error("author must be a positive integer")
	}
	return nil
}

// ArticleUpdate checks a sparse article update. Absent fields skip
// validation entirely.
func ArticleUpdate(title, content *string) error {
	if title != nil && len(*title) < minTitleLen {
		return Error("title must be at least 5 characters")
	}
	if content != nil && len(*content) < minContentLen {
		return Error("content must be at least 50 characters")
	}
	return nil
}

// ProfileUpdate checks a sparse profile update.
func ProfileUpdate(name, email, password *string) error {
	if name != nil && len(*name) < minNameLen {
		return Error("name must be at least 2 characters")
	}
	if email != nil && !emailRx.MatchString(*email) {
		return Error("invalid email")
	}
	if password != nil && len(*password) < minPasswordLen {
		return Error("password must be at least 6 characters")
	}
	return nil
}
