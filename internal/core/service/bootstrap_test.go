package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/user-management/internal/core/domain"
)

func TestBootstrap_SeedDefaults(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	b := NewBootstrap(users, roles, testLogger())

	if err := b.SeedDefaults(context.Background(), "admin@admin.com", "admin123"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	listed, _ := roles.ListRoles(context.Background())
	if len(listed) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(listed))
	}

	admin, err := users.FindByEmail(context.Background(), "admin@admin.com")
	if err != nil {
		t.Fatalf("default admin missing: %v", err)
	}
	if admin.RoleName != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.RoleName)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")); err != nil {
		t.Fatalf("admin password hash mismatch: %v", err)
	}
}

func TestBootstrap_SeedDefaults_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	b := NewBootstrap(users, roles, testLogger())

	for i := 0; i < 2; i++ {
		if err := b.SeedDefaults(context.Background(), "admin@admin.com", "admin123"); err != nil {
			t.Fatalf("seed run %d failed: %v", i+1, err)
		}
	}

	listed, _ := roles.ListRoles(context.Background())
	if len(listed) != 2 {
		t.Fatalf("expected exactly one admin and one user role, got %d roles", len(listed))
	}
	if users.count() != 1 {
		t.Fatalf("expected exactly one seeded admin, got %d users", users.count())
	}
}
