package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/platform"
)

func init() {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and manage the installed library",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List installed titles",
		Run:   runLibraryList,
	}
	listCmd.Flags().Bool("json", false, "Output JSON instead of a table")

	removeCmd := &cobra.Command{
		Use:   "remove <app-id>",
		Short: "Delete a title's files and library entry",
		Args:  cobra.ExactArgs(1),
		Run:   runLibraryRemove,
	}

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open the unlock descriptor directory in the file manager",
		Run:   runLibraryOpen,
	}

	libraryCmd.AddCommand(listCmd, removeCmd, openCmd)
	RootCmd.AddCommand(libraryCmd)
}

func runLibraryOpen(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}
	if err := platform.OpenFileOrFolder(a.placer.LuaDir()); err != nil {
		exitErr("open", err)
	}
}

func runLibraryList(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}
	// Catalog names are best-effort; the listing works without them.
	_ = a.database.Load(cmd.Context())

	entries, err := a.indexer.Rescan()
	if err != nil {
		exitErr("scan library", err)
	}

	if asJSON {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, entry := range entries {
		fmt.Printf("%d\t%s\tlua=%t manifest=%t\n", entry.AppID, entry.Name, entry.HasLua, entry.HasManifest)
	}
}

func runLibraryRemove(cmd *cobra.Command, args []string) {
	id, err := model.ParseTitleID(args[0])
	if err != nil {
		exitErr("parse app id", err)
	}

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}
	if err := a.indexer.Remove(id); err != nil {
		exitErr("remove", err)
	}
	fmt.Printf("Removed AppID %d\n", id)
}
