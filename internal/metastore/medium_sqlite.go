package metastore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// Schema DDL for the cases table. The three progress maps are stored as
// JSON text columns; the composite primary key mirrors the record's
// (case_id, case_type) identity.
const createCases = `CREATE TABLE IF NOT EXISTS cases (
    case_id TEXT NOT NULL,
    case_type TEXT NOT NULL,
    client TEXT NOT NULL,
    lawyer TEXT,
    legal_affairs TEXT,
    court TEXT,
    division TEXT,
    case_reason TEXT,
    case_number TEXT,
    opposing_party TEXT,
    progress TEXT NOT NULL,
    progress_date TEXT,
    progress_stages TEXT NOT NULL,
    progress_notes TEXT NOT NULL,
    progress_times TEXT NOT NULL,
    created_date TEXT NOT NULL,
    updated_date TEXT NOT NULL,
    PRIMARY KEY (case_id, case_type)
);`

const casesColumns = `case_id, case_type, client, lawyer, legal_affairs, court, division,
	case_reason, case_number, opposing_party, progress, progress_date,
	progress_stages, progress_notes, progress_times, created_date, updated_date`

// SQLMedium persists case records in a relational cases table. It backs
// both the sqlite scheme (modernc.org/sqlite, local file) and the
// postgres scheme (lib/pq, DSN); the two differ only in driver name and
// placeholder style.
type SQLMedium struct {
	db          *sql.DB
	logger      *zap.Logger
	placeholder func(n int) string
}

// NewSQLiteMedium opens (or creates) a SQLite database file and ensures
// the cases table exists.
func NewSQLiteMedium(dbPath string, logger *zap.Logger) (*SQLMedium, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return newSQLMedium(db, questionPlaceholder, logger)
}

func newSQLMedium(db *sql.DB, placeholder func(int) string, logger *zap.Logger) (*SQLMedium, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(createCases); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cases table: %w", err)
	}
	return &SQLMedium{db: db, logger: logger, placeholder: placeholder}, nil
}

func questionPlaceholder(int) string { return "?" }

// LoadAll reads every row from the cases table. Rows that fail to scan
// or whose stage maps do not parse are skipped, not fatal.
func (m *SQLMedium) LoadAll() ([]*types.CaseRecord, error) {
	if m.db == nil {
		return nil, types.ErrMediumClosed
	}
	rows, err := m.db.Query("SELECT " + casesColumns + " FROM cases")
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var records []*types.CaseRecord
	for rows.Next() {
		rec, err := scanCase(rows)
		if err != nil {
			m.logger.Warn("skipping unreadable case row", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning cases: %w", err)
	}
	return records, nil
}

// SaveAll replaces the table contents with the given records inside one
// transaction.
func (m *SQLMedium) SaveAll(records []*types.CaseRecord) error {
	if m.db == nil {
		return types.ErrMediumClosed
	}
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cases"); err != nil {
		return fmt.Errorf("clearing cases table: %w", err)
	}

	placeholders := make([]string, 17)
	for i := range placeholders {
		placeholders[i] = m.placeholder(i + 1)
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO cases (%s) VALUES (%s)", casesColumns, joinColumns(placeholders))
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing case insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		args, err := caseArgs(rec)
		if err != nil {
			return fmt.Errorf("encoding case %s: %w", rec.CaseID, err)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting case %s: %w", rec.CaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close closes the database connection. Idempotent.
func (m *SQLMedium) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// caseArgs flattens a record into insert arguments, serializing the
// stage maps as JSON.
func caseArgs(rec *types.CaseRecord) ([]any, error) {
	stages, err := json.Marshal(mapOrEmpty(rec.ProgressStages))
	if err != nil {
		return nil, err
	}
	notes, err := json.Marshal(mapOrEmpty(rec.ProgressNotes))
	if err != nil {
		return nil, err
	}
	times, err := json.Marshal(mapOrEmpty(rec.ProgressTimes))
	if err != nil {
		return nil, err
	}
	return []any{
		rec.CaseID, rec.CaseType, rec.Client, rec.Lawyer, rec.LegalAffairs,
		rec.Court, rec.Division, rec.CaseReason, rec.CaseNumber, rec.OpposingParty,
		rec.Progress, rec.ProgressDate,
		string(stages), string(notes), string(times),
		rec.CreatedDate.Format(time.RFC3339), rec.UpdatedDate.Format(time.RFC3339),
	}, nil
}

// scanCase hydrates one row into a CaseRecord.
func scanCase(rows *sql.Rows) (*types.CaseRecord, error) {
	var rec types.CaseRecord
	var lawyer, legalAffairs, court, division, caseReason, caseNumber, opposingParty, progressDate sql.NullString
	var stages, notes, times, createdAt, updatedAt string

	err := rows.Scan(
		&rec.CaseID, &rec.CaseType, &rec.Client, &lawyer, &legalAffairs,
		&court, &division, &caseReason, &caseNumber, &opposingParty,
		&rec.Progress, &progressDate,
		&stages, &notes, &times, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Lawyer = lawyer.String
	rec.LegalAffairs = legalAffairs.String
	rec.Court = court.String
	rec.Division = division.String
	rec.CaseReason = caseReason.String
	rec.CaseNumber = caseNumber.String
	rec.OpposingParty = opposingParty.String
	rec.ProgressDate = progressDate.String

	if err := json.Unmarshal([]byte(stages), &rec.ProgressStages); err != nil {
		return nil, fmt.Errorf("parsing progress_stages: %w", err)
	}
	if err := json.Unmarshal([]byte(notes), &rec.ProgressNotes); err != nil {
		return nil, fmt.Errorf("parsing progress_notes: %w", err)
	}
	if err := json.Unmarshal([]byte(times), &rec.ProgressTimes); err != nil {
		return nil, fmt.Errorf("parsing progress_times: %w", err)
	}
	if rec.CreatedDate, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	if rec.UpdatedDate, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_date: %w", err)
	}
	return &rec, nil
}

func mapOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func joinColumns(cols []string) string {
	result := ""
	for i, c := range cols {
		if i > 0 {
			result += ", "
		}
		result += c
	}
	return result
}
