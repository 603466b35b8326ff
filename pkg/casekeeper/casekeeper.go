// Package casekeeper exposes module-level metadata.
package casekeeper

// Version is the semantic version of the casekeeper module.
const Version = "0.1.0"
