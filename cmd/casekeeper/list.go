// List and search commands for the casekeeper CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/lexhaus/casekeeper/pkg/types"
)

var (
	listType     string
	listProgress string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases, optionally filtered by type or progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		var records []*types.CaseRecord
		switch {
		case listType != "":
			records = eng.coord.CasesByType(listType)
		case listProgress != "":
			records = eng.coord.CasesByProgress(listProgress)
		default:
			records = eng.coord.Cases()
		}

		printRecords(records)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search cases by client, case number or case reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		printRecords(eng.coord.Search(args[0]))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "filter by case type")
	listCmd.Flags().StringVar(&listProgress, "progress", "", "filter by current progress stage")
}
