// Package cli implements the maintenance subcommands of the flowy binary.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/flowy/internal/catalog"
	"github.com/terraincognita07/flowy/internal/config"
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/services"
	"gorm.io/gorm"
)

func openStore(cfg config.Config) (services.Store, func(), error) {
	database, err := db.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	return db.NewServiceStore(database), closer(database), nil
}

func closer(database *gorm.DB) func() {
	return func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// RunResetPasswordCommand replaces the account password with a generated
// temporary one and prints it.
func RunResetPasswordCommand(cfg config.Config, email string, out io.Writer) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	temporaryPassword, err := services.NewAuthService(store, nil, nil).ResetPassword(email)
	if err != nil {
		return fmt.Errorf("reset password for %s: %w", email, err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	return nil
}

// RunSetPasswordCommand asks for a new password twice and stores it.
func RunSetPasswordCommand(cfg config.Config, email string, stdin *os.File, out io.Writer) error {
	password, err := promptPassword(stdin, out, "New password: ")
	if err != nil {
		return err
	}
	confirmation, err := promptPassword(stdin, out, "Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirmation {
		return fmt.Errorf("passwords do not match")
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := services.NewAuthService(store, nil, nil).SetPassword(email, password); err != nil {
		return fmt.Errorf("set password for %s: %w", email, err)
	}
	fmt.Fprintln(out, "Password updated")
	return nil
}

// RunSeedCommand loads the catalog file (or the embedded default) and upserts
// it by name.
func RunSeedCommand(cfg config.Config, out io.Writer) error {
	loaded, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := services.NewCatalogService(store).Seed(loaded.Achievements, loaded.Rewards); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	fmt.Fprintf(out, "Seeded %d achievements and %d rewards\n", len(loaded.Achievements), len(loaded.Rewards))
	return nil
}
