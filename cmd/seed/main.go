// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pakair-dev/pakair-api/internal/config"
	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/user"
)

// seed provisions the default official account for non-production
// environments. It is idempotent: an existing account gets its role and
// activity flags repaired, but its password is left alone unless
// -reset-password is passed explicitly.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	resetPassword := flag.Bool(
		"reset-password",
		false,
		"overwrite the existing official account's password",
	)
	flag.Parse()

	if err := run(*configPath, *resetPassword); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, resetPassword bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		return fmt.Errorf(
			"refusing to seed in production; provision official accounts manually",
		)
	}

	if cfg.Seed.OfficialEmail == "" || cfg.Seed.OfficialPassword == "" {
		return fmt.Errorf(
			"DEFAULT_OFFICIAL_EMAIL and DEFAULT_OFFICIAL_PASSWORD are required",
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	repo := user.NewRepository(db.DB)
	svc := user.NewService(repo)

	existing, err := svc.GetByEmail(ctx, cfg.Seed.OfficialEmail)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}

	if existing == nil {
		created, createErr := svc.Create(ctx, user.CreateUserParams{
			FirstName:    cfg.Seed.OfficialFirstName,
			LastName:     cfg.Seed.OfficialLastName,
			Email:        cfg.Seed.OfficialEmail,
			Phone:        cfg.Seed.OfficialPhone,
			Password:     cfg.Seed.OfficialPassword,
			Role:         user.RoleOfficial,
			AgreeToTerms: true,
		})
		if createErr != nil {
			return createErr
		}

		slog.Info("default official account created",
			"email", created.Email,
			"id", created.ID,
		)
		return nil
	}

	repaired := false
	if existing.Role != user.RoleOfficial {
		existing.Role = user.RoleOfficial
		repaired = true
	}
	if !existing.IsActive {
		existing.IsActive = true
		repaired = true
	}
	if !existing.AgreeToTerms {
		existing.AgreeToTerms = true
		repaired = true
	}

	if repaired {
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		slog.Info("official account repaired", "email", existing.Email)
	}

	if resetPassword {
		if err := svc.UpdatePassword(
			ctx,
			existing.ID,
			cfg.Seed.OfficialPassword,
		); err != nil {
			return err
		}
		slog.Info("official account password reset", "email", existing.Email)
	}

	if !repaired && !resetPassword {
		slog.Info("official account already provisioned",
			"email", existing.Email,
		)
	}

	return nil
}
