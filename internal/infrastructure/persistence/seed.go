package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/messhall/backend/internal/domain/identity"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SeedStaffAccounts creates the default admin and manager accounts if they
// do not already exist. Existing accounts are never touched, so changed
// passwords survive restarts.
func SeedStaffAccounts(ctx context.Context, repo identity.UserRepository, cfg config.SeedConfig, log *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	seeds := []struct {
		username string
		password string
		role     identity.Role
		fullName string
	}{
		{cfg.AdminUsername, cfg.AdminPassword, identity.RoleAdmin, "Administrator"},
		{cfg.ManagerUsername, cfg.ManagerPassword, identity.RoleManager, "Mess Manager"},
	}

	for _, seed := range seeds {
		_, err := repo.FindByUsername(ctx, seed.username)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to look up seed account %q: %w", seed.username, err)
		}

		user, err := identity.NewUser(seed.username, seed.password, seed.role, seed.fullName)
		if err != nil {
			return fmt.Errorf("failed to build seed account %q: %w", seed.username, err)
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create seed account %q: %w", seed.username, err)
		}

		log.Info("Seeded staff account",
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)),
		)
	}

	return nil
}
