package main

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/logging"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.Setup(cfg)

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			slog.Info("migration completed", "driver", cfg.DBDriver)
			return nil
		},
	}
}
