package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goStellard/internal/config"
)

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config <path>",
	Short: "Write an example stellard.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveExampleConfig(args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	},
}
