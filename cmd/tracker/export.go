package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jobmate/application-tracker/internal/config"
	"jobmate/application-tracker/internal/db"
	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/logging"
	"jobmate/application-tracker/internal/store"
	"jobmate/application-tracker/internal/tracker"
)

func exportCmd() *cobra.Command {
	var (
		user   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one user's applications as CSV",
		Long: `Export renders every application of --user in the CSV export format.
Output goes to stdout unless --output is set; "--output ." writes the
default job-applications-YYYY-MM-DD.csv file name in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.New(cfg.Log.Level, cfg.Log.Format)

			pool, err := db.NewPostgresPool(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer pool.Close()

			svc := tracker.NewService(store.New(pool), events.Nop{}, noDismissals{},
				tracker.WithLocation(cfg.Server.Location))

			filename, body, err := svc.ExportCSV(cmd.Context(), userID)
			if err != nil {
				return err
			}

			switch output {
			case "":
				_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
				return err
			case ".":
				output = filename
			}
			if err := os.WriteFile(output, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id whose applications are exported")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
