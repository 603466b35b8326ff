package types

import "errors"

// MergePolicy governs collision handling when importing a tabular file.
type MergePolicy string

const (
	// MergeSkip keeps the existing record and drops the imported row.
	MergeSkip MergePolicy = "skip"
	// MergeReplace overwrites the existing record with the imported row.
	MergeReplace MergePolicy = "replace"
	// MergeUpdate fills empty fields of the existing record from the
	// imported row without touching populated ones.
	MergeUpdate MergePolicy = "update"
)

// ErrUnknownMergePolicy rejects import calls with an unrecognized policy.
var ErrUnknownMergePolicy = errors.New("unknown merge policy")

// Valid reports whether the policy is one of skip, replace or update.
func (p MergePolicy) Valid() bool {
	switch p {
	case MergeSkip, MergeReplace, MergeUpdate:
		return true
	}
	return false
}

// ImportReport summarizes one tabular import.
type ImportReport struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Exporter is the tabular-export collaborator. The engine treats the
// file format as opaque; the shipped implementation writes CSV.
type Exporter interface {
	// Export writes the records to path.
	Export(path string, records []*CaseRecord) error

	// Import reads records from path, returning them together with a
	// row-level report. Merging against the store is the caller's job;
	// the policy only shapes the report semantics.
	Import(path string, policy MergePolicy) ([]*CaseRecord, ImportReport, error)

	// RewriteCaseID rewrites rows referencing oldID to newID across the
	// export directory. Returns the number of files touched.
	RewriteCaseID(oldID, newID string) (int, error)
}
