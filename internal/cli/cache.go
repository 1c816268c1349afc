package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage on-disk caches",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached game list",
		Run:   runCacheClear,
	}

	cacheCmd.AddCommand(clearCmd)
	RootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}
	if err := a.database.ClearDiskCache(); err != nil {
		exitErr("clear cache", err)
	}
	fmt.Println("Cache cleared.")
}
