// Init command creates the configuration and data directories and opens
// the backend once so first-run failures surface immediately.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize casekeeper storage",
	Long:  "Create configuration and data directories, then initialize the metadata backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config dir and config.yaml were created by PersistentPreRunE.
		eng, err := openEngine()
		if err != nil {
			fail(exitSysError, "initialize storage: %s", err)
		}
		defer eng.close()

		fmt.Printf("Casekeeper initialized: %d case(s) loaded, folder tree at %s\n",
			eng.store.Count(), eng.tree.BaseDir())
		return nil
	},
}
