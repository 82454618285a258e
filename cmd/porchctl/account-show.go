package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/model"
)

// accountShowCmd represents the account show command
var accountShowCmd = &cobra.Command{
	Use:   "show <id|login>",
	Short: "Show an account and its privileges",
	Long: `Show an account with its direct and effective privileges.

Effective privileges include those inherited from the account's groups.

Example:
  porchctl account show octocat
  porchctl account show 583231 --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showAccount(model.ParseKey(args[0]), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show account: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	accountCmd.AddCommand(accountShowCmd)
	accountShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showAccount(key model.Key, output string) error {
	return withEnvironment(func(ctx context.Context, env *environment) error {
		accounts := env.accounts()

		account, err := accounts.FetchAccount(ctx, key)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("account '%s' does not exist", key)
		}

		effective, err := accounts.EffectivePrivileges(ctx, model.KeyID(account.ID))
		if err != nil {
			return err
		}

		if output == "json" {
			return printJSON(struct {
				*model.Account
				EffectivePrivileges []string `json:"effective_privileges"`
			}{account, effective})
		}

		fmt.Printf("ID:         %d\n", account.ID)
		fmt.Printf("Login:      %s\n", account.Login)
		fmt.Printf("Name:       %s\n", account.Name)
		fmt.Printf("Email:      %s\n", account.Email)
		fmt.Printf("Last login: %s\n", account.LastLogin.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Privileges: %s\n", strings.Join(account.PrivilegeNames(), ", "))
		fmt.Printf("Effective:  %s\n", strings.Join(effective, ", "))
		return nil
	})
}
