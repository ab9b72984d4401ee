package main

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/shramba/internal/config"
)

var (
	configPath string
	envFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shramba",
	Short: "Personal storage inventory tracker",
	Long: `Shramba keeps track of what you own and where it is stored.

Items are grouped into categories and placed in containers. The dashboard
shows totals and the most recently added items.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: shramba.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading SHRAMBA_* variables")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}
