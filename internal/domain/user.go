package domain

import "time"

// User represents a registered account. The password hash never leaves
// the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries a sparse profile update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the patch carries no fields.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}
