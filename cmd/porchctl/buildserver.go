package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/buildserver"
	"github.com/saltstack/porch/pkg/db"
	"github.com/saltstack/porch/pkg/model"
)

// buildServerCmd represents the buildserver command
var buildServerCmd = &cobra.Command{
	Use:   "buildserver",
	Short: "Manage Jenkins build servers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'buildserver' requires a subcommand (add, list, update, remove, sync)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var buildServerAddCmd = &cobra.Command{
	Use:   "add <address> <username>",
	Short: "Register a Jenkins master",
	Long: `Register a Jenkins master.

The API token is read from --token or PORCH_JENKINS_TOKEN.

Example:
  PORCH_JENKINS_TOKEN=... porchctl buildserver add https://jenkins.example.com porch`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("PORCH_JENKINS_TOKEN")
		}
		if token == "" {
			fmt.Fprintln(os.Stderr, "A Jenkins API token is required")
			os.Exit(1)
		}

		server := model.NewBuildServer(strings.TrimRight(args[0], "/"), args[1], token)
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.buildServers().CreateBuildServer(ctx, server)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add build server: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added build server '%s' (%d)\n", server.Address, server.ID)
	},
}

var buildServerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List build servers and their builders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		includeRemoved, _ := cmd.Flags().GetBool("include-removed")

		err := withEnvironment(func(ctx context.Context, env *environment) error {
			servers := env.buildServers()
			list, err := servers.ListBuildServers(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Printf("%d\t%s\t%s\n", s.ID, s.Address, s.Username)

				builders, err := servers.FetchBuilders(ctx, s.ID, includeRemoved)
				if err != nil {
					return err
				}
				for _, b := range builders {
					status := ""
					if b.Removed {
						status = " (removed)"
					}
					fmt.Printf("\t%s%s\n", b.Name, status)
				}
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list build servers: %v\n", err)
			os.Exit(1)
		}
	},
}

var buildServerUpdateCmd = &cobra.Command{
	Use:   "update <id|address>",
	Short: "Change the credentials of a build server",
	Long: `Change the username or API token Porch uses for a build server. Only
the flags given are applied; unchanged values are not written.

Example:
  porchctl buildserver update https://jenkins.example.com --username porch-bot`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		form := db.Values{}
		if cmd.Flags().Changed("username") {
			form["username"], _ = cmd.Flags().GetString("username")
		}
		if cmd.Flags().Changed("token") {
			form["access_token"], _ = cmd.Flags().GetString("token")
		}

		if err := updateBuildServer(model.ParseKey(args[0]), form); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update build server: %v\n", err)
			os.Exit(1)
		}
	},
}

var buildServerRemoveCmd = &cobra.Command{
	Use:   "remove <id|address>",
	Short: "Remove a build server and its builders",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := model.ParseKey(args[0])
		err := withEnvironment(func(ctx context.Context, env *environment) error {
			return env.buildServers().DeleteBuildServer(ctx, key)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove build server: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed build server '%s'\n", key)
	},
}

var buildServerSyncCmd = &cobra.Command{
	Use:   "sync [id|address]",
	Short: "Refresh builders from Jenkins",
	Long: `Refresh the builders of one build server, or of every server when none
is named, from the jobs Jenkins reports.

Example:
  porchctl buildserver sync
  porchctl buildserver sync https://jenkins.example.com`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var key *model.Key
		if len(args) > 0 {
			k := model.ParseKey(args[0])
			key = &k
		}

		if err := syncBuildServers(key); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync build servers: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildServerCmd)
	buildServerCmd.AddCommand(buildServerAddCmd)
	buildServerCmd.AddCommand(buildServerListCmd)
	buildServerCmd.AddCommand(buildServerUpdateCmd)
	buildServerCmd.AddCommand(buildServerRemoveCmd)
	buildServerCmd.AddCommand(buildServerSyncCmd)

	buildServerAddCmd.Flags().String("token", "", "Jenkins API token")
	buildServerListCmd.Flags().Bool("include-removed", false, "also list builders no longer on the server")
	buildServerUpdateCmd.Flags().String("username", "", "Jenkins username")
	buildServerUpdateCmd.Flags().String("token", "", "Jenkins API token")
}

func updateBuildServer(key model.Key, form db.Values) error {
	if len(form) == 0 {
		return fmt.Errorf("nothing to update; pass --username or --token")
	}

	return withEnvironment(func(ctx context.Context, env *environment) error {
		server, err := env.buildServers().FetchBuildServer(ctx, key)
		if err != nil {
			return err
		}
		if server == nil {
			return fmt.Errorf("build server '%s' does not exist", key)
		}

		changed, err := env.db.UpdateFromForm(ctx, server, form)
		if err != nil {
			return err
		}
		if len(changed) == 0 {
			fmt.Printf("Build server '%s' is unchanged\n", server.Address)
			return nil
		}
		fmt.Printf("Updated %s of build server '%s'\n", strings.Join(changed, ", "), server.Address)
		return nil
	})
}

func syncBuildServers(key *model.Key) error {
	return withEnvironment(func(ctx context.Context, env *environment) error {
		servers := env.buildServers()

		var targets []model.BuildServer
		if key != nil {
			server, err := servers.FetchBuildServer(ctx, *key)
			if err != nil {
				return err
			}
			if server == nil {
				return fmt.Errorf("build server '%s' does not exist", key)
			}
			targets = append(targets, *server)
		} else {
			list, err := servers.ListBuildServers(ctx)
			if err != nil {
				return err
			}
			targets = list
		}

		syncer := buildserver.NewSyncer(env.builders(), env.app.Config().JenkinsRequestTimeout())
		var failed int
		for i := range targets {
			server := &targets[i]
			result, err := syncer.Sync(ctx, server)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", server.Address, err)
				failed++
				continue
			}
			fmt.Printf("%s: %d added, %d updated, %d restored, %d removed\n",
				server.Address, result.Added, result.Updated, result.Restored, result.Removed)
			for _, name := range result.Skipped {
				fmt.Printf("%s: skipped %s, owned by another build server\n", server.Address, name)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d build servers failed to sync", failed, len(targets))
		}
		return nil
	})
}
