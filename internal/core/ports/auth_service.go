package ports

import (
	"context"

	"github.com/userdesk/user-management/internal/core/domain"
)

// AuthService covers self-service account operations: registration, credential
// login and session teardown.
type AuthService interface {
	// Register validates and persists a new account, returning its public
	// projection. The password is bcrypt-hashed before any write.
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	// Login verifies credentials and issues a signed session token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the session identified by claims until its expiry.
	Logout(ctx context.Context, claims domain.SessionClaims) error
}
