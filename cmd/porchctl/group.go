package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/model"
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
	Long:  `Manage groups, their members and the privileges they grant.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'group' requires a subcommand (create, show, delete, add, remove, grant, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.TrimSpace(args[0])
		if name == "" || len(name) > model.MaxGroupNameLength {
			fmt.Fprintf(os.Stderr, "Group names must be 1 to %d characters\n", model.MaxGroupNameLength)
			os.Exit(1)
		}

		group := model.NewGroup(name)
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().CreateGroup(ctx, group)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create group: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Created group '%s' (%d)\n", group.Name, group.ID)
	},
}

var groupShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a group, its privileges and members",
	Long: `Show a group, its privileges and members.

Example:
  porchctl group show release
  porchctl group show release --limit 20 --offset 40`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		if err := showGroup(model.ParseKey(args[0]), limit, offset); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show group: %v\n", err)
			os.Exit(1)
		}
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a group",
	Long:  `Delete a group. Its members and privileges are left in place.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := model.ParseKey(args[0])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().DeleteGroup(ctx, key)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete group: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted group '%s'\n", key)
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add <group> <account>",
	Short: "Add an account to a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, account := model.ParseKey(args[0]), model.ParseKey(args[1])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().AddMember(ctx, group, account)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add member: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added '%s' to group '%s'\n", account, group)
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:   "remove <group> <account>",
	Short: "Remove an account from a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, account := model.ParseKey(args[0]), model.ParseKey(args[1])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().RemoveMember(ctx, group, account)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove member: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed '%s' from group '%s'\n", account, group)
	},
}

var groupGrantCmd = &cobra.Command{
	Use:   "grant <group> <privilege>",
	Short: "Grant a privilege to every member of a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, ref := model.ParseKey(args[0]), model.RawPrivilege(args[1])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().GrantPrivilege(ctx, group, ref)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to grant privilege: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Granted '%s' to group '%s'\n", ref, group)
	},
}

var groupRevokeCmd = &cobra.Command{
	Use:   "revoke <group> <privilege>",
	Short: "Revoke a privilege from a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		group, ref := model.ParseKey(args[0]), model.RawPrivilege(args[1])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.groups().RevokePrivilege(ctx, group, ref)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke privilege: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Revoked '%s' from group '%s'\n", ref, group)
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupShowCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupRemoveCmd)
	groupCmd.AddCommand(groupGrantCmd)
	groupCmd.AddCommand(groupRevokeCmd)

	groupShowCmd.Flags().Int("limit", 0, "maximum number of members to list (0 lists all)")
	groupShowCmd.Flags().Int("offset", 0, "number of members to skip")
}

func showGroup(key model.Key, limit, offset int) error {
	return withEnvironment(func(ctx context.Context, env *environment) error {
		groups := env.groups()

		group, err := groups.FetchGroup(ctx, key)
		if err != nil {
			return err
		}
		if group == nil {
			return fmt.Errorf("group '%s' does not exist", key)
		}

		id := model.KeyID(group.ID)
		total, err := groups.CountGroupMembers(ctx, id)
		if err != nil {
			return err
		}
		members, err := groups.FetchGroupMembers(ctx, id, limit, offset)
		if err != nil {
			return err
		}

		privileges := make([]string, 0, len(group.Privileges))
		for _, p := range group.Privileges {
			privileges = append(privileges, p.Name)
		}

		fmt.Printf("ID:         %d\n", group.ID)
		fmt.Printf("Name:       %s\n", group.Name)
		fmt.Printf("Privileges: %s\n", strings.Join(privileges, ", "))
		fmt.Printf("Members:    %d\n", total)
		for _, m := range members {
			fmt.Printf("  %-20s %d\n", m.Login, m.ID)
		}
		return nil
	})
}
