// Update command edits descriptive fields of an existing case.
package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	updateType     string
	updateClient   string
	updateLawyer   string
	updateAffairs  string
	updateCourt    string
	updateDivision string
	updateReason   string
	updateNumber   string
	updateOpposing string
)

var updateCmd = &cobra.Command{
	Use:   "update <case-id>",
	Short: "Update descriptive fields of a case",
	Long: `Update edits descriptive metadata of an existing case. Only fields
whose flags are set change; an explicitly empty value clears the field.
Progress history is edited with the stage subcommands, not here.

Changing the client does not move the existing case folder; the old
directory stays where it is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		rec := eng.coord.CaseByID(args[0])
		if updateType != "" {
			rec = eng.coord.CaseByIDAndType(args[0], updateType)
		}
		if rec == nil {
			fail(exitUserError, "case %s not found", args[0])
		}

		updated := rec.Clone()
		set := func(flagName string, dst *string, val string) {
			if cmd.Flags().Changed(flagName) {
				*dst = val
			}
		}
		set("client", &updated.Client, updateClient)
		set("lawyer", &updated.Lawyer, updateLawyer)
		set("legal-affairs", &updated.LegalAffairs, updateAffairs)
		set("court", &updated.Court, updateCourt)
		set("division", &updated.Division, updateDivision)
		set("reason", &updated.CaseReason, updateReason)
		set("number", &updated.CaseNumber, updateNumber)
		set("opposing", &updated.OpposingParty, updateOpposing)
		updated.UpdatedDate = time.Now()

		if err := updated.Validate(); err != nil {
			fail(exitUserError, "update: %s", err)
		}

		finishReport(eng.coord.UpdateCase(updated))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateType, "type", "", "case type")
	updateCmd.Flags().StringVar(&updateClient, "client", "", "client name")
	updateCmd.Flags().StringVar(&updateLawyer, "lawyer", "", "responsible lawyer")
	updateCmd.Flags().StringVar(&updateAffairs, "legal-affairs", "", "legal affairs contact")
	updateCmd.Flags().StringVar(&updateCourt, "court", "", "court name")
	updateCmd.Flags().StringVar(&updateDivision, "division", "", "court division")
	updateCmd.Flags().StringVar(&updateReason, "reason", "", "case reason")
	updateCmd.Flags().StringVar(&updateNumber, "number", "", "court case number")
	updateCmd.Flags().StringVar(&updateOpposing, "opposing", "", "opposing party")
}
