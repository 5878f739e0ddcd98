package ports

import (
	"context"

	"github.com/userdesk/user-management/internal/core/domain"
)

// UserPage is one page of the user directory plus the total count under the
// same filter, for the caller to derive page count.
type UserPage struct {
	Users []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService is the admin-facing user directory: paginated listing with
// search, role re-assignment, and permanent deletion.
type UserService interface {
	List(ctx context.Context, page, limit int, search string) (*UserPage, error)
	UpdateRole(ctx context.Context, userID, roleName string) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	Roles(ctx context.Context) ([]*domain.Role, error)
}
