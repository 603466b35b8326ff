// Package main provides the casekeeper CLI, a consistency-maintenance
// engine for legal-case records. It keeps three representations of the
// same case data in step: an authoritative metadata store, a mirrored
// folder tree for working files, and tabular exports.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
