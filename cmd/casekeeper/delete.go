// Delete and rename commands for the casekeeper CLI.
package main

import (
	"github.com/spf13/cobra"
)

var (
	deleteType       string
	deleteKeepFolder bool
	renameType       string
)

var deleteCmd = &cobra.Command{
	Use:   "delete <case-id>",
	Short: "Delete a case and, by default, its folder structure",
	Long: `Delete removes a case from the metadata store and deletes its mirrored
folder tree. Pass --keep-folder to leave the working files in place.

When --type is omitted the identifier must be unambiguous: if it exists
in more than one case-type partition the command fails without touching
anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		finishReport(eng.coord.DeleteCase(args[0], deleteType, !deleteKeepFolder))
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <old-id> <new-id>",
	Short: "Rename a case identifier across metadata, exports and progress logs",
	Long: `Rename changes a case identifier. The metadata store is renamed first
and is authoritative; tabular exports and progress-log files are then
rewritten best-effort, with per-step outcomes in the report.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		finishReport(eng.coord.RenameCaseID(args[0], renameType, args[1]))
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteType, "type", "", "case type")
	deleteCmd.Flags().BoolVar(&deleteKeepFolder, "keep-folder", false, "keep the case folder on disk")
	renameCmd.Flags().StringVar(&renameType, "type", "", "case type")
}
