package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// All transactions, categories and budgets are scoped by User.ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Avatar is an optional image URL.
	Avatar string `json:"avatar,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Accounts restored from an export without credentials have none.
	PasswordHash string `json:"passwordHash,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Public returns a copy without credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
