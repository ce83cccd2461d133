// Package auth registers and signs in users and issues session tokens.
package auth

import (
	"context"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// Authenticator verifies user credentials.
// The server and the CLI depend on this interface, not on bcrypt directly.
type Authenticator interface {
	// Register creates an account. It returns ErrEmailExists for a taken
	// address and ErrWeakPassword for a rejected credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email when credential matches,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
