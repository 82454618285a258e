package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the Porch database schema",
	Long: `Manage the Porch database schema.

PostgreSQL databases are versioned with the SQL migrations under db/migrations,
recorded in the porch_schema_migrations table. SQLite databases are created
from the models and carry no version.

The database is read from PORCH_DATABASE_URL, DATABASE_URL or porch.yml.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "error: porchctl db needs one of: migrate, down, status")
		fmt.Fprintln(os.Stderr)
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
