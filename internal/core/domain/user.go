package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Validation failures surfaced by the registration pipeline. Each rule has its
// own sentinel so callers can tell the user exactly what to fix.
var (
	ErrMissingField     = errors.New("email, password and name are required")
	ErrEmptyField       = errors.New("email and name must not be blank")
	ErrInvalidEmail     = errors.New("email format is invalid")
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordWeak     = errors.New("password must contain a lowercase letter, an uppercase letter and a digit")
	ErrEmailTaken       = errors.New("user already exists")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrSessionRevoked     = errors.New("session has been revoked")

	// ErrRoleMissing means the default "user" role was never provisioned.
	// Registration fails closed rather than creating a roleless account.
	ErrRoleMissing = errors.New("default user role is not provisioned")
)

// Role is a named privilege level. The seed set is "admin" and "user";
// name uniqueness is enforced by the store.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User models a registered account. Email is stored lowercased; the bcrypt
// hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"-"`
	RoleName     string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionClaims is the authenticated identity carried by a session token.
type SessionClaims struct {
	UserID string
	Email  string
	Name   string
	Role   string
	// TokenID is the jti used for revocation on logout.
	TokenID string
	// ExpiresAt bounds how long a revocation entry must outlive the token.
	ExpiresAt time.Time
}
