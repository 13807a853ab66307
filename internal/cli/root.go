// Package cli wires the stellard command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goStellard/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "stellard",
	Short:         "Stellar-style order book and trade execution daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to stellard.toml (defaults apply when omitted)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(exampleConfigCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCheckCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configPath)
}
