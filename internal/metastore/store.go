// Package metastore implements the authoritative metadata store for case
// records: CRUD, search, identifier generation and statistics over an
// in-memory map persisted through a pluggable Medium.
//
// The store is the source of truth. Folder-tree and export mirrors are
// reconciled against it, never the other way around. Single active
// process is assumed; concurrent writers against the same medium resolve
// last-writer-wins and lost updates are a documented limitation.
package metastore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// Store keeps every case record in memory, keyed by the
// (case_type, case_id) pair, and writes through to its Medium on every
// mutation. A mutation is not durable until the write-through succeeds;
// on a failed save the in-memory change is rolled back.
type Store struct {
	medium types.Medium
	logger *zap.Logger

	records map[recordKey]*types.CaseRecord
}

type recordKey struct {
	caseType string
	caseID   string
}

// New creates a store over the given medium. A nil logger defaults to
// zap.NewNop().
func New(medium types.Medium, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		medium:  medium,
		logger:  logger,
		records: make(map[recordKey]*types.CaseRecord),
	}
}

// Load populates the in-memory state from the medium. Record-level
// decode problems are handled inside the medium (bad rows are skipped,
// corrupt payloads fall back to the previous snapshot), so an error
// here means the medium itself is unusable.
func (s *Store) Load() error {
	records, err := s.medium.LoadAll()
	if err != nil {
		return fmt.Errorf("loading case records: %w", err)
	}
	s.records = make(map[recordKey]*types.CaseRecord, len(records))
	for _, rec := range records {
		if rec.CaseID == "" || rec.CaseType == "" {
			s.logger.Warn("skipping record without identity",
				zap.String("case_id", rec.CaseID),
				zap.String("case_type", rec.CaseType))
			continue
		}
		s.records[keyOf(rec)] = rec
	}
	s.logger.Debug("case records loaded", zap.Int("count", len(s.records)))
	return nil
}

// Save persists the full in-memory state through the medium.
func (s *Store) Save() error {
	if err := s.medium.SaveAll(s.All()); err != nil {
		return fmt.Errorf("saving case records: %w", err)
	}
	return nil
}

// Close releases the medium.
func (s *Store) Close() error {
	return s.medium.Close()
}

// Add inserts a new record and persists the store. Fails with
// ErrDuplicateID when the (case_id, case_type) pair already exists and
// with a validation error when required fields are missing. The insert
// is rolled back if the save fails.
func (s *Store) Add(rec *types.CaseRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	k := keyOf(rec)
	if _, exists := s.records[k]; exists {
		return types.ErrDuplicateID
	}
	s.records[k] = rec
	if err := s.Save(); err != nil {
		delete(s.records, k)
		return err
	}
	return nil
}

// Update replaces the stored record matching rec's identity and persists
// the store. Fails with ErrNotFound when the record is absent. The
// previous value is restored if the save fails.
func (s *Store) Update(rec *types.CaseRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	k := keyOf(rec)
	prev, exists := s.records[k]
	if !exists {
		return types.ErrNotFound
	}
	s.records[k] = rec
	if err := s.Save(); err != nil {
		s.records[k] = prev
		return err
	}
	return nil
}

// Delete removes exactly the record matching both case_id and case_type
// and persists the store. Fails with ErrNotFound when no such record
// exists. The record is restored if the save fails.
func (s *Store) Delete(caseID, caseType string) error {
	k := recordKey{caseType: caseType, caseID: caseID}
	prev, exists := s.records[k]
	if !exists {
		return types.ErrNotFound
	}
	delete(s.records, k)
	if err := s.Save(); err != nil {
		s.records[k] = prev
		return err
	}
	return nil
}

// RenameID changes a record's identifier within its case-type partition
// and persists the store. Fails with ErrNotFound when the old identity
// is absent and with ErrIDInUse when the new identifier is already taken
// in the same partition. Both keys are restored if the save fails.
func (s *Store) RenameID(oldID, caseType, newID string) error {
	oldKey := recordKey{caseType: caseType, caseID: oldID}
	rec, exists := s.records[oldKey]
	if !exists {
		return types.ErrNotFound
	}
	newKey := recordKey{caseType: caseType, caseID: newID}
	if _, taken := s.records[newKey]; taken {
		return types.ErrIDInUse
	}

	renamed := rec.Clone()
	renamed.CaseID = newID
	renamed.UpdatedDate = time.Now()
	delete(s.records, oldKey)
	s.records[newKey] = renamed
	if err := s.Save(); err != nil {
		delete(s.records, newKey)
		s.records[oldKey] = rec
		return err
	}
	return nil
}

// GenerateID produces a fresh identifier scoped to the case-type
// partition: a Republic-of-China-calendar year prefix followed by a
// three-digit sequence ("113001"). The sequence continues past the
// largest suffix already in use, so generated identifiers never collide
// within the partition.
func (s *Store) GenerateID(caseType string) string {
	prefix := strconv.Itoa(rocYear())
	max := 0
	for k := range s.records {
		if k.caseType != caseType || !strings.HasPrefix(k.caseID, prefix) {
			continue
		}
		if n, err := strconv.Atoi(k.caseID[len(prefix):]); err == nil && n > max {
			max = n
		}
	}
	for seq := max + 1; ; seq++ {
		id := fmt.Sprintf("%s%03d", prefix, seq)
		if _, taken := s.records[recordKey{caseType: caseType, caseID: id}]; !taken {
			return id
		}
	}
}

// FindByID returns the first record with the given identifier across
// every case-type partition. Identifiers are only unique per partition,
// so with colliding ids across types this is a best-effort lookup; the
// partition scan order is deterministic (sorted by case type).
func (s *Store) FindByID(caseID string) *types.CaseRecord {
	var hit *types.CaseRecord
	for k, rec := range s.records {
		if k.caseID != caseID {
			continue
		}
		if hit == nil || k.caseType < hit.CaseType {
			hit = rec
		}
	}
	return hit
}

// FindAllByID returns every record carrying the identifier, one per
// case-type partition, sorted by case type. Callers that cannot accept
// the first-match ambiguity of FindByID use this to detect collisions.
func (s *Store) FindAllByID(caseID string) []*types.CaseRecord {
	var hits []*types.CaseRecord
	for _, rec := range s.All() {
		if rec.CaseID == caseID {
			hits = append(hits, rec)
		}
	}
	return hits
}

// FindByIDAndType returns the record matching both identifier and case
// type, or nil.
func (s *Store) FindByIDAndType(caseID, caseType string) *types.CaseRecord {
	return s.records[recordKey{caseType: caseType, caseID: caseID}]
}

// Search returns records whose client, case number or case reason
// contains the keyword, case-insensitively. An empty keyword matches
// nothing.
func (s *Store) Search(keyword string) []*types.CaseRecord {
	if keyword == "" {
		return nil
	}
	needle := strings.ToLower(keyword)
	var hits []*types.CaseRecord
	for _, rec := range s.All() {
		if containsFold(rec.Client, needle) ||
			containsFold(rec.CaseNumber, needle) ||
			containsFold(rec.CaseReason, needle) {
			hits = append(hits, rec)
		}
	}
	return hits
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

// ByType returns every record of one case type.
func (s *Store) ByType(caseType string) []*types.CaseRecord {
	var hits []*types.CaseRecord
	for _, rec := range s.All() {
		if rec.CaseType == caseType {
			hits = append(hits, rec)
		}
	}
	return hits
}

// ByProgress returns every record at one progress stage.
func (s *Store) ByProgress(progress string) []*types.CaseRecord {
	var hits []*types.CaseRecord
	for _, rec := range s.All() {
		if rec.Progress == progress {
			hits = append(hits, rec)
		}
	}
	return hits
}

// All returns every record sorted by case type then case id.
func (s *Store) All() []*types.CaseRecord {
	records := make([]*types.CaseRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CaseType != records[j].CaseType {
			return records[i].CaseType < records[j].CaseType
		}
		return records[i].CaseID < records[j].CaseID
	})
	return records
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return len(s.records)
}

// Statistics aggregates record counts by case type, progress and lawyer.
type Statistics struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"by_type"`
	ByProgress map[string]int `json:"by_progress"`
	ByLawyer   map[string]int `json:"by_lawyer"`
}

// Statistics computes aggregate counts over the stored records. Records
// without a lawyer are counted under "unassigned".
func (s *Store) Statistics() Statistics {
	stats := Statistics{
		Total:      len(s.records),
		ByType:     make(map[string]int),
		ByProgress: make(map[string]int),
		ByLawyer:   make(map[string]int),
	}
	for _, rec := range s.records {
		stats.ByType[rec.CaseType]++
		stats.ByProgress[rec.Progress]++
		lawyer := rec.Lawyer
		if lawyer == "" {
			lawyer = "unassigned"
		}
		stats.ByLawyer[lawyer]++
	}
	return stats
}

func keyOf(rec *types.CaseRecord) recordKey {
	return recordKey{caseType: rec.CaseType, caseID: rec.CaseID}
}

// rocYear returns the current year in the Republic of China calendar,
// the convention used by generated case identifiers.
func rocYear() int {
	return time.Now().Year() - 1911
}
