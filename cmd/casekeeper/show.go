// Show command for the casekeeper CLI.
package main

import (
	"github.com/spf13/cobra"
)

var showType string

var showCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show one case record",
	Long: `Show prints a single case. When --type is omitted the identifier is
looked up across every case-type partition and the first match wins;
pass --type to disambiguate identifiers reused across types.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		var rec = eng.coord.CaseByID(args[0])
		if showType != "" {
			rec = eng.coord.CaseByIDAndType(args[0], showType)
		}
		if rec == nil {
			fail(exitUserError, "case %s not found", args[0])
		}

		printRecord(rec)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showType, "type", "", "case type")
}
