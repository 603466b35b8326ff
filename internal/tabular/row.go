package tabular

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// recordRow flattens a record into one CSV row following header order.
func recordRow(rec *types.CaseRecord) ([]string, error) {
	stages, err := json.Marshal(rec.ProgressStages)
	if err != nil {
		return nil, err
	}
	notes, err := json.Marshal(rec.ProgressNotes)
	if err != nil {
		return nil, err
	}
	times, err := json.Marshal(rec.ProgressTimes)
	if err != nil {
		return nil, err
	}
	return []string{
		rec.CaseID, rec.CaseType, rec.Client, rec.Lawyer, rec.LegalAffairs,
		rec.Court, rec.Division, rec.CaseReason, rec.CaseNumber, rec.OpposingParty,
		rec.Progress, rec.ProgressDate,
		string(stages), string(notes), string(times),
		rec.CreatedDate.Format(time.RFC3339), rec.UpdatedDate.Format(time.RFC3339),
	}, nil
}

// rowRecord hydrates one CSV row into a CaseRecord using the header's
// column positions. Missing optional columns are tolerated; timestamps
// that fail to parse default to now.
func rowRecord(row []string, cols map[string]int) (*types.CaseRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rec := types.NewCaseRecord(get("case_id"), get("case_type"), get("client"))
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("row for %q/%q: %w", get("case_id"), get("case_type"), err)
	}

	rec.Lawyer = get("lawyer")
	rec.LegalAffairs = get("legal_affairs")
	rec.Court = get("court")
	rec.Division = get("division")
	rec.CaseReason = get("case_reason")
	rec.CaseNumber = get("case_number")
	rec.OpposingParty = get("opposing_party")
	rec.ProgressDate = get("progress_date")

	if err := decodeMapCell(get("progress_stages"), &rec.ProgressStages); err != nil {
		return nil, fmt.Errorf("progress_stages: %w", err)
	}
	if err := decodeMapCell(get("progress_notes"), &rec.ProgressNotes); err != nil {
		return nil, fmt.Errorf("progress_notes: %w", err)
	}
	if err := decodeMapCell(get("progress_times"), &rec.ProgressTimes); err != nil {
		return nil, fmt.Errorf("progress_times: %w", err)
	}

	if progress := get("progress"); progress != "" {
		rec.Progress = progress
	}
	if _, ok := rec.ProgressStages[rec.Progress]; !ok && len(rec.ProgressStages) > 0 {
		// Keep the progress invariant for rows exported by older tools.
		rec.Progress, rec.ProgressDate = latestEntry(rec.ProgressStages)
	}

	if t, err := time.Parse(time.RFC3339, get("created_date")); err == nil {
		rec.CreatedDate = t
	}
	if t, err := time.Parse(time.RFC3339, get("updated_date")); err == nil {
		rec.UpdatedDate = t
	}
	return rec, nil
}

func decodeMapCell(cell string, dst *map[string]string) error {
	if cell == "" {
		return nil
	}
	return json.Unmarshal([]byte(cell), dst)
}

func latestEntry(stages map[string]string) (stage, date string) {
	for s, d := range stages {
		if stage == "" || d > date || (d == date && s > stage) {
			stage, date = s, d
		}
	}
	return stage, date
}

// columnIndex maps header names to their positions.
func columnIndex(headerRow []string) map[string]int {
	cols := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		cols[name] = i
	}
	return cols
}

// fillEmptyFields copies descriptive fields from src into dst where dst
// is empty. Identity, progress history and timestamps stay untouched.
func fillEmptyFields(dst, src *types.CaseRecord) {
	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
		}
	}
	fill(&dst.Lawyer, src.Lawyer)
	fill(&dst.LegalAffairs, src.LegalAffairs)
	fill(&dst.Court, src.Court)
	fill(&dst.Division, src.Division)
	fill(&dst.CaseReason, src.CaseReason)
	fill(&dst.CaseNumber, src.CaseNumber)
	fill(&dst.OpposingParty, src.OpposingParty)
}

// stripBOM removes a leading UTF-8 BOM so exported files re-import
// cleanly.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
