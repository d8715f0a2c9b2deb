package domain

import (
	"strings"
	"time"
)

// User is an operator who can sign in with a password. The username doubles
// as the actor id recorded in audit entries.
type User struct {
	Username  string    `db:"username"`
	Password  string    `db:"password"` // bcrypt hashed
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewUser(username, hashedPassword string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  strings.TrimSpace(username),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Scopes granted to every interactive user.
func (u *User) Scopes() []string {
	return []string{ScopeAll}
}
