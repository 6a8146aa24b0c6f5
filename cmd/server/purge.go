package main

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/logging"
	"github.com/spf13/cobra"
)

func purgeCmd() *cobra.Command {
	var retention string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete old system logs and expired refresh tokens once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.Setup(cfg)

			keep := cfg.SystemLogRetention
			if retention != "" {
				d, err := parseRetention(retention)
				if err != nil {
					return err
				}
				keep = d
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			res, err := jobs.NewJanitor(db, keep).Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "system logs: %d\nrefresh tokens: %d\n",
				res.SystemLogs, res.RefreshTokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&retention, "retention", "", "Keep system logs newer than this (e.g. 168h); defaults to SYSTEM_LOG_RETENTION")
	return cmd
}

func parseRetention(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid --retention %q: want a positive duration such as 168h", s)
	}
	return d, nil
}
