// jobmate application tracker
//
// Tracks a user's job applications and derives the views the clients show:
//   - filtered application lists (search, status, job type)
//   - dashboard statistics and the seven-day trend
//   - follow-up reminders, with per-user dismissal
//   - a date-grouped timeline and a CSV export
//
// Serves REST for the Gateway and gRPC for internal callers. Publishes
// EVENT_APPLICATION_* changes and periodic EVENT_FOLLOW_UP_DUE digests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	version = "1.1.0"
	appName = "tracker"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Job application tracker service",
		Long: `Tracker stores job applications per user and derives filtered lists,
dashboard statistics, follow-up reminders, a timeline and CSV exports.

Configuration comes from environment variables, optionally layered over a
YAML file named by CONFIG_PATH.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), migrateCmd(), exportCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
		},
	})

	return cmd
}
