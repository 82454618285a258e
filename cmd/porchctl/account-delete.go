package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/model"
)

// accountDeleteCmd represents the account delete command
var accountDeleteCmd = &cobra.Command{
	Use:   "delete <id|login>",
	Short: "Delete an account",
	Long: `Delete an account together with its privilege grants and group
memberships.

Example:
  porchctl account delete octocat`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := model.ParseKey(args[0])

		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.accounts().DeleteAccount(ctx, key)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete account: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Deleted account '%s'\n", key)
	},
}

func init() {
	accountCmd.AddCommand(accountDeleteCmd)
}
