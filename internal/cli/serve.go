package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/oracleapp/oracle/internal/api"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", api.DefaultAddr, "Listen address")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}

	// Warm the catalog so the first search does not pay the applist
	// fetch; a failure here is survivable because Load retries lazily.
	if err := a.database.Load(cmd.Context()); err != nil {
		log.Printf("Game database not loaded yet: %v", err)
	}

	server := api.NewServer(a.database, a.details, a.cache, a.placer, a.indexer, a.syncer, a.downloads, a.manager)
	if err := server.Router().Run(addr); err != nil {
		exitErr("serve", err)
	}
}
