// Package cli implements the oracle CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Game asset acquisition and library sync engine",
	Long:  "Resolves titles against candidate repositories, fetches and validates their assets, places them into the Steam config layout, and keeps the local library and DLC membership in sync.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Config directory (default: user config dir)")
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
