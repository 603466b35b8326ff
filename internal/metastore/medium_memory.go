package metastore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// EnvCases is the environment variable read by the "env" backend: a
// JSON array of case records supplied wholesale at process start.
const EnvCases = "CASEKEEPER_CASES"

// MemoryMedium holds case records in process memory. It backs the
// "memory" scheme (records injected by the caller, useful in tests) and
// the "env" scheme (records decoded from CASEKEEPER_CASES). Saves clone
// the record set so later store mutations never leak into the snapshot.
type MemoryMedium struct {
	snapshot []*types.CaseRecord
	closed   bool
}

// NewMemoryMedium creates a medium seeded with the given records.
func NewMemoryMedium(seed []*types.CaseRecord) *MemoryMedium {
	return &MemoryMedium{snapshot: cloneRecords(seed)}
}

// NewEnvMedium creates a memory medium seeded from the CASEKEEPER_CASES
// environment variable. An unset variable seeds an empty set; a value
// that does not parse is an error, since injected records are the whole
// data set and silently dropping them would look like data loss.
func NewEnvMedium() (*MemoryMedium, error) {
	payload := os.Getenv(EnvCases)
	if payload == "" {
		return NewMemoryMedium(nil), nil
	}
	var records []*types.CaseRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvCases, err)
	}
	return NewMemoryMedium(records), nil
}

// LoadAll returns a copy of the current snapshot.
func (m *MemoryMedium) LoadAll() ([]*types.CaseRecord, error) {
	if m.closed {
		return nil, types.ErrMediumClosed
	}
	return cloneRecords(m.snapshot), nil
}

// SaveAll replaces the snapshot with a copy of the given records.
func (m *MemoryMedium) SaveAll(records []*types.CaseRecord) error {
	if m.closed {
		return types.ErrMediumClosed
	}
	m.snapshot = cloneRecords(records)
	return nil
}

// Close marks the medium closed. Idempotent.
func (m *MemoryMedium) Close() error {
	m.closed = true
	return nil
}

func cloneRecords(records []*types.CaseRecord) []*types.CaseRecord {
	clones := make([]*types.CaseRecord, len(records))
	for i, rec := range records {
		clones[i] = rec.Clone()
	}
	return clones
}
