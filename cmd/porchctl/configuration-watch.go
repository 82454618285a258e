package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/app"
	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/signals"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the configuration every time the config file changes",
	Long: `Watch porch.yml and print the configuration each time it is reloaded.

Every reload is announced on the application's configuration-loaded signal,
the same way a running server picks up a new log level.

Example:
  porchctl configuration watch --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := watchConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
	configurationWatchCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func watchConfiguration(output string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	application := app.New(cfg, nil)
	application.Bus.Connect(signals.NameConfigurationLoaded, func(ctx context.Context, a *app.Application) error {
		fmt.Printf("[%s] configuration loaded\n", time.Now().Format(time.RFC3339))
		return printConfiguration(a.Config(), output)
	})
	if err := application.Configure(ctx); err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes\n", cfg.ConfigFilePath())
	err = watchAndReload(ctx, application)
	fmt.Println("\nShutting down...")
	return err
}

// watchAndReload feeds every valid change of the config file to
// application.ReloadConfig until ctx is done.
func watchAndReload(ctx context.Context, application *app.Application) error {
	return config.Watch(ctx, func(cfg *config.PorchConfig, err error) {
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			application.Log.WithError(err).Error("configuration not reloaded")
			return
		}
		if err := application.ReloadConfig(ctx, cfg); err != nil {
			application.Log.WithError(err).Error("configuration reload failed")
		}
	})
}
