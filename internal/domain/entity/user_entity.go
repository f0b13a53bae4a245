package entity

import (
	"time"
)

// UserIDPrefix marks identifiers issued to end-user accounts.
const UserIDPrefix = "US"

// User is the aggregate root for user domain
// Password holds the bcrypt hash and never leaves the service boundary.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	IsActive   bool      `json:"is_active"`
	IsLoggedIn bool      `json:"is_logged_in"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns the public fields of u as a fresh map, credential excluded.
func (u *User) Snapshot() map[string]any {
	return map[string]any{
		"id":           u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"is_active":    u.IsActive,
		"is_logged_in": u.IsLoggedIn,
		"created_at":   u.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":   u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Clone returns a copy that shares no state with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}
