package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oracleapp/oracle/internal/model"
)

func init() {
	dlcCmd := &cobra.Command{
		Use:   "dlc",
		Short: "Inspect and sync a title's DLC membership",
	}

	listCmd := &cobra.Command{
		Use:   "list <app-id>",
		Short: "List the DLC AppIDs recorded in the title's descriptor",
		Args:  cobra.ExactArgs(1),
		Run:   runDlcList,
	}

	syncCmd := &cobra.Command{
		Use:   "sync <app-id> [dlc-id...]",
		Short: "Replace the title's DLC membership with the given set",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDlcSync,
	}

	dlcCmd.AddCommand(listCmd, syncCmd)
	RootCmd.AddCommand(dlcCmd)
}

func runDlcList(cmd *cobra.Command, args []string) {
	id, err := model.ParseTitleID(args[0])
	if err != nil {
		exitErr("parse app id", err)
	}

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}

	dlcs, err := a.syncer.CurrentDLCs(id)
	if err != nil {
		exitErr("read descriptor", err)
	}
	for _, dlcID := range dlcs {
		fmt.Println(dlcID)
	}
}

func runDlcSync(cmd *cobra.Command, args []string) {
	id, err := model.ParseTitleID(args[0])
	if err != nil {
		exitErr("parse app id", err)
	}

	target := make([]model.TitleID, 0, len(args)-1)
	for _, arg := range args[1:] {
		dlcID, err := model.ParseTitleID(arg)
		if err != nil {
			exitErr("parse dlc id", err)
		}
		target = append(target, dlcID)
	}

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}

	result, err := a.syncer.Sync(id, target)
	if err != nil {
		exitErr("sync", err)
	}
	fmt.Printf("Synced %d DLC(s): added %d, removed %d\n", len(target), len(result.Added), len(result.Removed))
}
