// Package tabular implements the spreadsheet-export collaborator over
// CSV files. The engine only sees the Exporter interface; swapping in a
// real spreadsheet writer would not touch the coordinator.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// header is the column layout of exported files. The three progress
// maps travel as JSON cells so stage names and notes survive any
// punctuation.
var header = []string{
	"case_id", "case_type", "client", "lawyer", "legal_affairs",
	"court", "division", "case_reason", "case_number", "opposing_party",
	"progress", "progress_date",
	"progress_stages", "progress_notes", "progress_times",
	"created_date", "updated_date",
}

// utf8BOM keeps exported files readable in spreadsheet applications.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter reads and writes case collections as CSV files under a
// fixed export directory.
type CSVExporter struct {
	exportDir string
	logger    *zap.Logger
}

var _ types.Exporter = (*CSVExporter)(nil)

// New creates an exporter rooted at exportDir. A nil logger defaults to
// zap.NewNop().
func New(exportDir string, logger *zap.Logger) *CSVExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVExporter{exportDir: exportDir, logger: logger}
}

// DefaultPath returns the date-stamped export path used when the caller
// does not name one.
func (e *CSVExporter) DefaultPath() string {
	return filepath.Join(e.exportDir, fmt.Sprintf("cases_%s.csv", time.Now().Format("20060102")))
}

// Export writes the records to path. An empty path falls back to
// DefaultPath. The file carries a UTF-8 BOM and CRLF line endings for
// spreadsheet compatibility.
func (e *CSVExporter) Export(path string, records []*types.CaseRecord) error {
	if path == "" {
		path = e.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		row, err := recordRow(rec)
		if err != nil {
			return fmt.Errorf("encoding case %s: %w", rec.CaseID, err)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing case %s: %w", rec.CaseID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	e.logger.Info("cases exported", zap.String("path", path), zap.Int("rows", len(records)))
	return nil
}

// Import reads records from path. Rows that fail to decode are counted
// as failed, not fatal. Duplicate (case_id, case_type) rows inside the
// file are resolved by the merge policy: skip keeps the first, replace
// keeps the last, update fills empty fields of the first from later rows.
func (e *CSVExporter) Import(path string, policy types.MergePolicy) ([]*types.CaseRecord, types.ImportReport, error) {
	var report types.ImportReport
	if !policy.Valid() {
		return nil, report, types.ErrUnknownMergePolicy
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, report, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, report, fmt.Errorf("reading import file: %w", err)
	}
	if len(rows) == 0 {
		return nil, report, nil
	}

	cols := columnIndex(rows[0])
	seen := make(map[string]int)
	var records []*types.CaseRecord
	for _, row := range rows[1:] {
		rec, err := rowRecord(row, cols)
		if err != nil {
			report.Failed++
			e.logger.Warn("skipping unreadable import row", zap.Error(err))
			continue
		}
		key := rec.CaseType + "\x00" + rec.CaseID
		if i, dup := seen[key]; dup {
			switch policy {
			case types.MergeReplace:
				records[i] = rec
				report.Replaced++
			case types.MergeUpdate:
				fillEmptyFields(records[i], rec)
				report.Updated++
			default:
				report.Skipped++
			}
			continue
		}
		seen[key] = len(records)
		records = append(records, rec)
		report.Imported++
	}
	return records, report, nil
}

// RewriteCaseID rewrites the case_id column from oldID to newID in every
// CSV file under the export directory. Returns the number of files
// actually modified. Per-file failures abort with the files already
// rewritten left in place; the rename saga treats this as a mirror
// failure.
func (e *CSVExporter) RewriteCaseID(oldID, newID string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(e.exportDir, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("listing exports: %w", err)
	}
	touched := 0
	for _, path := range matches {
		changed, err := rewriteFile(path, oldID, newID)
		if err != nil {
			return touched, fmt.Errorf("rewriting %s: %w", path, err)
		}
		if changed {
			touched++
		}
	}
	if touched > 0 {
		e.logger.Info("export files rewritten for case id change",
			zap.String("old_id", oldID), zap.String("new_id", newID), zap.Int("files", touched))
	}
	return touched, nil
}

func rewriteFile(path, oldID, newID string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	f.Close()
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	idCol := -1
	for i, name := range rows[0] {
		if name == "case_id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return false, nil
	}

	changed := false
	for _, row := range rows[1:] {
		if idCol < len(row) && row[idCol] == oldID {
			row[idCol] = newID
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	out, err := os.Create(path)
	if err != nil {
		return false, err
	}
	defer out.Close()
	if _, err := out.Write(utf8BOM); err != nil {
		return false, err
	}
	w := csv.NewWriter(out)
	w.UseCRLF = true
	if err := w.WriteAll(rows); err != nil {
		return false, err
	}
	return true, w.Error()
}
