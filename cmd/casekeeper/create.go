// Create command for the casekeeper CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexhaus/casekeeper/pkg/types"
)

var (
	createID       string
	createType     string
	createClient   string
	createLawyer   string
	createAffairs  string
	createCourt    string
	createDivision string
	createReason   string
	createNumber   string
	createOpposing string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new case with metadata and a mirrored folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		id := createID
		if id == "" {
			id = eng.store.GenerateID(createType)
		}

		rec := types.NewCaseRecord(id, createType, createClient)
		rec.Lawyer = createLawyer
		rec.LegalAffairs = createAffairs
		rec.Court = createCourt
		rec.Division = createDivision
		rec.CaseReason = createReason
		rec.CaseNumber = createNumber
		rec.OpposingParty = createOpposing

		if err := rec.Validate(); err != nil {
			fail(exitUserError, "create: %s", err)
		}

		report := eng.coord.AddCase(rec)
		if !flagJSON && report.OK {
			fmt.Printf("Created case %s [%s] for %s\n", rec.CaseID, rec.CaseType, rec.Client)
		}
		finishReport(report)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createID, "id", "", "case identifier (generated when omitted)")
	createCmd.Flags().StringVar(&createType, "type", "", "case type (required)")
	createCmd.Flags().StringVar(&createClient, "client", "", "client name (required)")
	createCmd.Flags().StringVar(&createLawyer, "lawyer", "", "responsible lawyer")
	createCmd.Flags().StringVar(&createAffairs, "legal-affairs", "", "legal affairs contact")
	createCmd.Flags().StringVar(&createCourt, "court", "", "court name")
	createCmd.Flags().StringVar(&createDivision, "division", "", "court division")
	createCmd.Flags().StringVar(&createReason, "reason", "", "case reason")
	createCmd.Flags().StringVar(&createNumber, "number", "", "court case number")
	createCmd.Flags().StringVar(&createOpposing, "opposing", "", "opposing party")

	createCmd.MarkFlagRequired("type")
	createCmd.MarkFlagRequired("client")
}
