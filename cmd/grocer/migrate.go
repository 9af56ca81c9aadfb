package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hearthward/grocer/internal/common"
	"github.com/hearthward/grocer/internal/config"
	"github.com/hearthward/grocer/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates automatically on startup; this exists to
prepare a database ahead of time or after an upgrade.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := config.DatabasePath()
			slog.Info("running database migrations", "database", dbPath)

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			common.LogInfo("database schema is current", common.Fields{
				"database": dbPath,
				"version":  storage.ExpectedSchemaVersion,
			})
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the grocer version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("grocer %s\n", version)
		},
	}
}
