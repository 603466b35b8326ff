// Stage commands edit the progress history of a case.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	stageType string
	stageDate string
	stageNote string
	stageTime string
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Manage the progress stages of a case",
	Long: `Stage subcommands edit a case's progress history. Adding a stage makes
it the current progress; removing the current stage reassigns progress
to the latest remaining stage by date, or clears it when the history
empties.`,
}

var stageAddCmd = &cobra.Command{
	Use:   "add <case-id> <stage>",
	Short: "Add a progress stage and make it current",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		finishReport(eng.coord.AddStage(args[0], stageType, args[1], stageDate, stageNote, stageTime))
		return nil
	},
}

var stageUpdateCmd = &cobra.Command{
	Use:   "update <case-id> <stage>",
	Short: "Update the date, note or time of a recorded stage",
	Long: `Update edits a recorded stage. An omitted --date keeps the recorded
date; --note and --time replace their values, clearing them when set to
an empty string.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		finishReport(eng.coord.UpdateStage(args[0], stageType, args[1], stageDate, stageNote, stageTime))
		return nil
	},
}

var stageRemoveCmd = &cobra.Command{
	Use:   "remove <case-id> <stage>",
	Short: "Remove a stage from the progress history",
	Long: `Remove deletes a stage and its note and time. The stage's folder is
left in place: its files may be the only copy of case documents.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		finishReport(eng.coord.RemoveStage(args[0], stageType, args[1]))
		return nil
	},
}

var stageListCmd = &cobra.Command{
	Use:   "list <case-id>",
	Short: "List the progress stages of a case in date order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		rec := eng.coord.CaseByID(args[0])
		if stageType != "" {
			rec = eng.coord.CaseByIDAndType(args[0], stageType)
		}
		if rec == nil {
			fail(exitUserError, "case %s not found", args[0])
		}

		entries := rec.OrderedStages()
		if flagJSON {
			printJSON(entries)
			return nil
		}
		for _, entry := range entries {
			marker := " "
			if entry.Stage == rec.Progress {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s\t%s\t%s\n", marker, entry.Stage, entry.Date,
				rec.StageTime(entry.Stage), rec.StageNote(entry.Stage))
		}
		return nil
	},
}

func init() {
	stageCmd.PersistentFlags().StringVar(&stageType, "type", "", "case type")

	for _, sub := range []*cobra.Command{stageAddCmd, stageUpdateCmd} {
		sub.Flags().StringVar(&stageDate, "date", "", "stage date (YYYY-MM-DD)")
		sub.Flags().StringVar(&stageNote, "note", "", "stage note")
		sub.Flags().StringVar(&stageTime, "time", "", "stage time of day")
	}

	stageCmd.AddCommand(stageAddCmd)
	stageCmd.AddCommand(stageUpdateCmd)
	stageCmd.AddCommand(stageRemoveCmd)
	stageCmd.AddCommand(stageListCmd)
}
