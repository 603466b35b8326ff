// Stats command for the casekeeper CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate case statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := mustEngine()
		defer eng.close()

		stats := eng.coord.Statistics()
		if flagJSON {
			printJSON(stats)
			return nil
		}

		fmt.Printf("total: %d\n", stats.Total)
		fmt.Println("by type:")
		for _, k := range sortedKeys(stats.ByType) {
			fmt.Printf("  %s: %d\n", k, stats.ByType[k])
		}
		fmt.Println("by progress:")
		for _, k := range sortedKeys(stats.ByProgress) {
			fmt.Printf("  %s: %d\n", k, stats.ByProgress[k])
		}
		fmt.Println("by lawyer:")
		for _, k := range sortedKeys(stats.ByLawyer) {
			fmt.Printf("  %s: %d\n", k, stats.ByLawyer[k])
		}
		return nil
	},
}
