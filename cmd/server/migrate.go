package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the transfers table",
		Long: `Create the transfers table for the configured STORE_DRIVER if it does
not exist yet.  mysql and sqlite run CREATE TABLE IF NOT EXISTS; postgres
uses gorm AutoMigrate.  The supabase driver has nothing to migrate.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			_, closeStore, err := openStore(cmd.Context(), cfg.Store, true, log)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer func() { _ = closeStore() }()

			log.Info("migration complete", zap.String("driver", cfg.Store.Driver))
			return nil
		},
	}
}
