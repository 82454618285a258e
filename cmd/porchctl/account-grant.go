package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/model"
)

// accountGrantCmd represents the account grant command
var accountGrantCmd = &cobra.Command{
	Use:   "grant <id|login> <privilege>",
	Short: "Grant a privilege to an account",
	Long: `Grant an existing privilege directly to an account.

Example:
  porchctl account grant octocat build`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, ref := model.ParseKey(args[0]), model.RawPrivilege(args[1])

		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.accounts().GrantPrivilege(ctx, key, ref)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to grant privilege: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Granted '%s' to account '%s'\n", ref, key)
	},
}

// accountRevokeCmd represents the account revoke command
var accountRevokeCmd = &cobra.Command{
	Use:   "revoke <id|login> <privilege>",
	Short: "Revoke a privilege from an account",
	Long: `Revoke a privilege granted directly to an account. Privileges held
through groups are not affected.

Example:
  porchctl account revoke octocat build`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, ref := model.ParseKey(args[0]), model.RawPrivilege(args[1])

		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.accounts().RevokePrivilege(ctx, key, ref)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke privilege: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Revoked '%s' from account '%s'\n", ref, key)
	},
}

func init() {
	accountCmd.AddCommand(accountGrantCmd)
	accountCmd.AddCommand(accountRevokeCmd)
}
