package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/model"
)

// privilegeCmd represents the privilege command
var privilegeCmd = &cobra.Command{
	Use:   "privilege",
	Short: "Manage privileges",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'privilege' requires a subcommand (create, list, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var privilegeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a privilege",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.TrimSpace(args[0])
		if name == "" || len(name) > model.MaxPrivilegeNameLength {
			fmt.Fprintf(os.Stderr, "Privilege names must be 1 to %d characters\n", model.MaxPrivilegeNameLength)
			os.Exit(1)
		}

		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.privileges().CreatePrivilege(ctx, model.NewPrivilege(model.RawPrivilege(name)))
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create privilege: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created privilege '%s'\n", name)
	},
}

var privilegeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List privileges",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			privileges, err := env.privileges().ListPrivileges(ctx)
			if err != nil {
				return err
			}
			for _, p := range privileges {
				fmt.Println(p.Name)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list privileges: %v\n", err)
			os.Exit(1)
		}
	},
}

var privilegeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a privilege and every grant of it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := model.RawPrivilege(args[0])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.privileges().DeletePrivilege(ctx, ref)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete privilege: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted privilege '%s'\n", ref)
	},
}

func init() {
	rootCmd.AddCommand(privilegeCmd)
	privilegeCmd.AddCommand(privilegeCreateCmd)
	privilegeCmd.AddCommand(privilegeListCmd)
	privilegeCmd.AddCommand(privilegeDeleteCmd)
}
