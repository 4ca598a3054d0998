package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/repositories"
	"github.com/campusreg/studentreg/internal/config"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	"github.com/campusreg/studentreg/internal/pkg/auth"
)

// CreateDefaultAdmin creates the configured admin account if it does
// not exist yet, so a fresh deployment has an admin without anyone
// self-registering one.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	hashed, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:     "Administrator",
		Email:    cfg.Admin.Email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}

	err = userRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", cfg.Admin.Email).Msg("Default admin already exists")
			return nil
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	return nil
}
