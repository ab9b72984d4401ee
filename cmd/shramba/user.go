package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/shramba/internal/app"
	"github.com/erazemk/shramba/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account with a generated password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := app.OpenDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		user, password, err := app.CreateUser(ctx, store.New(database), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Account created:")
		fmt.Fprintf(out, "  Username: %s\n", user.Username)
		fmt.Fprintf(out, "  Password: %s\n", password)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
}
