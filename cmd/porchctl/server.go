package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Porch application server",
	Long: `Run the Porch application server.

The server requires a database URL, from PORCH_DATABASE_URL, DATABASE_URL or
porch.yml. By default, database migrations are run on startup. Use
--no-migrate to skip.

Changes to porch.yml are picked up while the server runs. The listen
address is only read at startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(cmd, !noMigrate); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides configuration)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides configuration)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(cmd *cobra.Command, migrateOnStart bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := configure(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.app.Config()
	if migrateOnStart {
		log.Log.Info("running database migrations")
		// An in-memory SQLite database only lives as long as this
		// connection, so it is migrated in place.
		if env.conn().Dialector.Name() == "sqlite" {
			err = env.db.Migrate(ctx)
		} else {
			err = runMigrations()
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind-address") {
		cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
	}

	s := server.NewServer(cfg, env.conn())
	endpoints.RegisterAll(s)

	go func() {
		if err := watchAndReload(ctx, env.app); err != nil {
			log.Log.WithError(err).Warn("configuration changes will not be picked up")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Log.Infof("Running server at http://%s...", s.Addr())
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
