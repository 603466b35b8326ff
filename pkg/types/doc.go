// Package types defines the CaseRecord model, the Medium and Exporter
// collaborator interfaces, the saga Report types, and the sentinel
// errors shared across the casekeeper storage engine.
package types
