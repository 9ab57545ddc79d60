package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/restaurante/backend/internal/storage/sqldb"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version]",
	Short: "Manage the database schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		switch action {
		case "up":
			if err := store.Migrate(); err != nil {
				return err
			}
		case "down":
			if err := store.MigrateDown(migrateSteps); err != nil {
				return err
			}
		case "version":
		default:
			return fmt.Errorf("unknown migrate action %q", action)
		}

		version, dirty, err := store.SchemaVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		slog.Info("Schema version", "version", version, "dirty", dirty)
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to revert with down")
}
