package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/seed"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load seed data",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'seed' requires a subcommand (load)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var seedLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Create the privileges, groups and build servers of a seed file",
	Long: `Create the privileges, groups and build servers of a seed file.

Loading is idempotent: records that already exist are left alone and
missing grants and memberships are added. Accounts are never created; run
"porchctl account import" first. Build server credentials may reference
environment variables.

Example seed file:

  privileges: [admin, build]
  groups:
    - name: release
      privileges: [build]
      members: [octocat]
  accounts:
    - login: octocat
      privileges: [admin]
  build_servers:
    - address: https://jenkins.example.com
      username: porch
      access_token: ${JENKINS_TOKEN}

Example:
  porchctl seed load seed.yml
  porchctl seed load seed.yml --check`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		check, _ := cmd.Flags().GetBool("check")

		if err := loadSeed(args[0], check); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedLoadCmd)
	seedLoadCmd.Flags().Bool("check", false, "only validate the file")
}

func loadSeed(path string, check bool) error {
	doc, err := seed.ParseFile(path)
	if err != nil {
		return err
	}
	if check {
		fmt.Printf("%s is valid\n", path)
		return nil
	}

	return withEnvironment(func(ctx context.Context, env *environment) error {
		result, err := seed.Apply(ctx, env.conn(), doc)
		if err != nil {
			return err
		}

		fmt.Printf("Created %d privileges, %d groups and %d build servers\n",
			result.PrivilegesCreated, result.GroupsCreated, result.BuildServersCreated)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		return nil
	})
}
