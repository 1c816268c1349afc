package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the game catalog",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("page", "p", 1, "Result page")
	cmd.Flags().IntP("per-page", "n", 20, "Results per page")
	cmd.Flags().Bool("json", false, "Output JSON instead of a table")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}
	if err := a.database.Load(cmd.Context()); err != nil {
		exitErr("load game database", err)
	}

	results := a.database.Search(args[0], page, perPage)

	if asJSON {
		out, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, game := range results.Games {
		fmt.Printf("%d\t%s\n", game.AppID, game.Name)
	}
	fmt.Fprintf(os.Stderr, "page %d/%d, %d match(es)\n", results.Page, results.TotalPages, results.Total)
}
