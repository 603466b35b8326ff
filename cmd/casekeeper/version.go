// Version command for the casekeeper CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexhaus/casekeeper/pkg/casekeeper"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("casekeeper v%s\n", casekeeper.Version)
	},
}
