package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erazemk/shramba/internal/app"
	"github.com/erazemk/shramba/internal/store"
)

var adminUser string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and the first account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initDatabase(cmd.Context(), cmd.OutOrStdout(), adminUser)
	},
}

func init() {
	initCmd.Flags().StringVarP(&adminUser, "user", "u", "Admin", "username of the first account")
}

// initDatabase ensures the schema and creates the first account, printing its
// generated password.
func initDatabase(ctx context.Context, out io.Writer, username string) error {
	database, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	_, password, err := app.CreateUser(ctx, store.New(database), username)
	if err != nil {
		return err
	}

	printInitResult(out, cfg.Database.Driver, username, password)
	return nil
}

// printInitResult prints the database initialization result.
func printInitResult(out io.Writer, driver, username, password string) {
	fmt.Fprintf(out, "Database initialized (%s).\n", driver)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Account created:")
	fmt.Fprintf(out, "  Username: %s\n", username)
	fmt.Fprintf(out, "  Password: %s\n", password)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Save this password, it cannot be recovered.")
	fmt.Fprintln(out, "It can be changed after logging in.")
}
