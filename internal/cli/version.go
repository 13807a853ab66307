package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stellard version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stellard %s (%s)\n", Version, Commit)
	},
}
