// cmd/shelves-admin/root.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelves-admin",
	Short: "Admin backend for the Shelves library app",
	Long: `shelves-admin serves the admin API for books, members, events and
notifications, persisting them as documents in memory, PostgreSQL or MongoDB.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
