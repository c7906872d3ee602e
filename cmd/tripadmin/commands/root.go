// Package commands implements the tripadmin operator CLI.
package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wanderlist/wanderlist/internal/storage/sqlite"
)

var dbPath string

// Execute runs the tripadmin root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "tripadmin",
		Short:         "Operator tooling for the Wanderlist trip service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&dbPath, "db", filepath.Join("data", "wanderlist.db"), "sqlite database path")

	root.AddCommand(keygenCmd(), grantCmd(), statsCmd(), eventsCmd(), recomputeCmd())
	return root.Execute()
}

// openStore opens the configured sqlite database. Callers own Close.
func openStore() (*sqlite.Store, error) {
	return sqlite.Open(dbPath)
}
