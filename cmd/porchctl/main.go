package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/log"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "porchctl",
	Short:   "Porch server and administration tool",
	Long:    `Run the Porch server and manage its accounts, groups, privileges and build servers.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		jsonLog, _ := cmd.Flags().GetBool("log-json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		log.Init("porchctl", version, jsonLog || os.Getenv("PORCH_LOG_JSON") == "true", verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
