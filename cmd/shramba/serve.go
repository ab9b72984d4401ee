package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erazemk/shramba/internal/app"
	"github.com/erazemk/shramba/internal/db"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

On first run with a SQLite database that does not exist yet, the database is
created together with a first account whose password is printed once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		if cfg.Database.Driver == db.DriverSQLite {
			if _, err := os.Stat(cfg.Database.DSN); errors.Is(err, fs.ErrNotExist) {
				if err := initDatabase(cmd.Context(), cmd.OutOrStdout(), adminUser); err != nil {
					return fmt.Errorf("initializing database: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application := app.New(cfg, Version)
		if err := application.Start(ctx); err != nil {
			return err
		}

		var exitErr error
		select {
		case <-ctx.Done():
		case sig := <-application.Wait():
			if sig.ExitCode != 0 {
				exitErr = fmt.Errorf("server exited with code %d", sig.ExitCode)
			}
		}

		stopCtx, cancel := context.WithTimeout(context.Background(), application.StopTimeout())
		defer cancel()
		if err := application.Stop(stopCtx); err != nil {
			return err
		}
		return exitErr
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
	serveCmd.Flags().StringVarP(&adminUser, "user", "u", "Admin", "username of the first account on first run")
}
