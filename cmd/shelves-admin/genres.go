// cmd/shelves-admin/genres.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelvesadmin/internal/catalog"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the book genres, one per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, g := range catalog.Genres() {
			fmt.Fprintln(cmd.OutOrStdout(), g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}
