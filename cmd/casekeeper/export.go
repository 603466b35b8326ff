// Import and export commands for tabular case data.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexhaus/casekeeper/pkg/types"
)

var importMerge string

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export all cases to a tabular file",
	Long: `Export writes every case to a CSV file. Without a path argument the
file lands in the configured export directory under a date-stamped
name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		path := eng.exporter.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}

		report := eng.coord.ExportCases(path)
		if !flagJSON && report.OK {
			fmt.Printf("Exported %d case(s) to %s\n", eng.store.Count(), path)
			return nil
		}
		finishReport(report)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import cases from a tabular file",
	Long: `Import reads cases from a CSV file and merges them into the metadata
store. The --merge policy decides collisions with existing cases:
skip keeps the stored record, replace overwrites it, update fills its
empty descriptive fields. New cases get folder structures.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := types.MergePolicy(importMerge)
		if !policy.Valid() {
			fail(exitUserError, "import: unknown merge policy %q (valid: skip, replace, update)", importMerge)
		}

		eng := mustEngine()
		defer eng.close()

		report, merged := eng.coord.ImportCases(args[0], policy)
		if flagJSON {
			printJSON(struct {
				types.Report
				types.ImportReport
			}{report, merged})
			if !report.OK {
				fail(exitUserError, "import failed")
			}
			return nil
		}

		if !report.OK {
			fail(exitUserError, "import failed: %s", report.Message())
		}
		fmt.Printf("Imported %d, replaced %d, updated %d, skipped %d, failed %d\n",
			merged.Imported, merged.Replaced, merged.Updated, merged.Skipped, merged.Failed)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importMerge, "merge", string(types.MergeSkip), "merge policy for existing cases (skip, replace, update)")
}
