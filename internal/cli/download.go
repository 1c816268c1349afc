package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oracleapp/oracle/internal/model"
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <app-id>",
		Short: "Download and install a title's files",
		Args:  cobra.ExactArgs(1),
		Run:   runDownload,
	}
	downloadCmd.Flags().String("name", "", "Display name for the title")
	RootCmd.AddCommand(downloadCmd)

	updateCmd := &cobra.Command{
		Use:   "update <app-id>",
		Short: "Refresh an installed title's manifest ids",
		Args:  cobra.ExactArgs(1),
		Run:   runUpdate,
	}
	updateCmd.Flags().String("name", "", "Display name for the title")
	RootCmd.AddCommand(updateCmd)
}

func runDownload(cmd *cobra.Command, args []string) {
	id, err := model.ParseTitleID(args[0])
	if err != nil {
		exitErr("parse app id", err)
	}
	name, _ := cmd.Flags().GetString("name")

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}

	task, err := a.downloads.DownloadAndInstall(cmd.Context(), id, name)
	if err != nil {
		exitErr("download", err)
	}
	if task.Status != model.TaskStatusCompleted {
		exitErr("download", fmt.Errorf("%s", task.LastError))
	}
	fmt.Printf("Installed %s from %s\n", task.DisplayName(), task.Source)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id, err := model.ParseTitleID(args[0])
	if err != nil {
		exitErr("parse app id", err)
	}
	name, _ := cmd.Flags().GetString("name")

	a, err := newApp()
	if err != nil {
		exitErr("init", err)
	}

	message, err := a.downloads.UpdateTitle(cmd.Context(), id, name)
	if err != nil {
		exitErr("update", err)
	}
	fmt.Println(message)
}
