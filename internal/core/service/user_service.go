package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userdesk/user-management/internal/core/domain"
	"github.com/userdesk/user-management/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// UserService implements the admin-facing user directory.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

// List returns one page of users matching search, plus the total count under
// the same filter. Page and limit are clamped, never rejected: garbage input
// degrades to the first page of a small result, not an error.
func (s *UserService) List(ctx context.Context, page, limit int, search string) (*ports.UserPage, error) {
	page = clampPage(page)
	limit = clampLimit(limit)

	users, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Search: strings.TrimSpace(search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// UpdateRole resolves roleName and idempotently points the user at it.
func (s *UserService) UpdateRole(ctx context.Context, userID, roleName string) (*domain.User, error) {
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("update role: resolve %q: %w", roleName, err)
	}

	user, err := s.users.UpdateRole(ctx, userID, role.ID, role.Name)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("role", role.Name).Msg("role updated")
	return user, nil
}

// Delete permanently removes the user. Unknown ids are a hard failure.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// Roles lists all provisioned roles.
func (s *UserService) Roles(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// clampPage coerces page to a minimum of 1.
func clampPage(page int) int {
	if page < 1 {
		return defaultPage
	}
	return page
}

// clampLimit bounds limit to [1, maxLimit]. The ceiling is hard regardless of
// what the client asked for.
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
