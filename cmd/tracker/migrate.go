package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobmate/application-tracker/internal/config"
	"jobmate/application-tracker/internal/db"
	"jobmate/application-tracker/internal/logging"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.New(cfg.Log.Level, cfg.Log.Format)

			n, err := db.Migrate(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
