package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/user-management/internal/core/domain"
	"github.com/userdesk/user-management/internal/core/ports"
)

// Bootstrap seeds the store with default data at startup: the "admin" and
// "user" roles and a default admin account. Seeding is idempotent and
// best-effort — it relies on the store's uniqueness constraints rather than
// any in-process flag, so it is safe to run concurrently from multiple
// instances, and failures are logged instead of crashing the process.
type Bootstrap struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewBootstrap(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{users: users, roles: roles, log: log}
}

// SeedDefaults provisions roles and the default admin. Returns the first error
// for observability; callers treat it as non-fatal.
func (b *Bootstrap) SeedDefaults(ctx context.Context, adminEmail, adminPassword string) error {
	adminRole, err := b.roles.EnsureRole(ctx, domain.RoleAdmin)
	if err != nil {
		b.log.Error().Err(err).Msg("seeding admin role failed")
		return fmt.Errorf("seed roles: %w", err)
	}
	if _, err := b.roles.EnsureRole(ctx, domain.RoleUser); err != nil {
		b.log.Error().Err(err).Msg("seeding user role failed")
		return fmt.Errorf("seed roles: %w", err)
	}

	adminEmail = domain.NormalizeEmail(adminEmail)
	if _, err := b.users.FindByEmail(ctx, adminEmail); err == nil {
		b.log.Debug().Msg("default admin already exists")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed admin: lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: hash: %w", err)
	}

	now := time.Now().UTC()
	_, err = b.users.Create(ctx, &domain.User{
		Email:        adminEmail,
		Name:         "Admin",
		PasswordHash: string(hash),
		RoleID:       adminRole.ID,
		RoleName:     adminRole.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Another instance created the admin between our lookup and insert.
		if errors.Is(err, domain.ErrEmailTaken) {
			b.log.Debug().Msg("default admin created by another instance")
			return nil
		}
		return fmt.Errorf("seed admin: create: %w", err)
	}

	b.log.Info().Str("email", adminEmail).Msg("default admin created")
	return nil
}
