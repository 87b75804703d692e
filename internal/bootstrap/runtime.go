// Package bootstrap wires the process-wide runtime: database, cache and
// development fixtures.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nightlife/internal/cache"
	"nightlife/internal/config"
	"nightlife/internal/database"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/seed"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to the database and cache and optionally seeds the
// reference catalog.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, cache.Cache, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	c := cache.New(ctx, cfg.CacheBackend, cfg.RedisURL)

	if err := EnsureDevRootAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.BuiltIns(db.WithContext(ctx)); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in catalog: %w", err)
		}
	}

	return db, c, nil
}

// EnsureDevRootAdmin creates or promotes the development admin account when
// DEV_BOOTSTRAP_ROOT is set outside production.
func EnsureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if cfg.IsProduction() || !cfg.DevBootstrapRoot {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@nightlife.local"
	}
	pseudonym := strings.TrimSpace(cfg.DevRootPseudonym)
	if pseudonym == "" {
		pseudonym = "root"
	}
	if cfg.DevRootPassword == "" {
		return errors.New("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevRootPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.User
		err := tx.Where("email = ?", email).First(&root).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			root = models.User{
				Pseudonym:   pseudonym,
				Email:       email,
				Password:    string(hashed),
				Role:        models.RoleAdmin,
				AccountType: models.AccountRegular,
				IsActive:    true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
			middleware.Logger.InfoContext(ctx, "created development root admin", slog.String("email", email))
		case err != nil:
			return err
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", root.ID).
				Updates(map[string]any{"role": models.RoleAdmin, "is_active": true}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
