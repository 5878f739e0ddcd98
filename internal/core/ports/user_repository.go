package ports

import (
	"context"

	"github.com/userdesk/user-management/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
// Page and Limit arrive already clamped by the service layer.
type ListUsersFilter struct {
	Search string // optional: case-insensitive substring match on name OR email
	Page   int    // 1-based
	Limit  int    // max rows per page (capped at 100 by service)
}

// UserRepository defines persistence operations for user accounts.
// Email uniqueness is the store's responsibility: Create must return
// domain.ErrEmailTaken on a uniqueness violation so concurrent registrations
// of the same address resolve deterministically.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks up a user by normalized (lowercased) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users matching filter and the total count under
	// the same filter. Ordering is deterministic (insertion order by id).
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// UpdateRole points the user at the given role and returns the updated
	// record with RoleName resolved.
	UpdateRole(ctx context.Context, userID, roleID, roleName string) (*domain.User, error)
	// Delete permanently removes the user; domain.ErrUserNotFound when absent.
	Delete(ctx context.Context, userID string) error
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// EnsureRole creates the role if absent and returns it either way.
	// Safe to call concurrently from multiple instances.
	EnsureRole(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
}
