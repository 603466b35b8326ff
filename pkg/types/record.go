package types

import (
	"sort"
	"time"
)

// ProgressPending is the progress value assigned to newly created cases
// before any stage has been recorded.
const ProgressPending = "pending"

// DateLayout is the layout for stage dates. Stage ordering relies on
// lexicographic comparison of date strings, which is only correct for
// this layout.
const DateLayout = "2006-01-02"

// CaseRecord is the structured metadata entity describing one legal case.
// Identity is the (CaseID, CaseType) pair: case identifiers are only
// unique within one case-type partition.
//
// Progress history is kept in three parallel maps keyed by stage name.
// ProgressNotes and ProgressTimes keys are always a subset of
// ProgressStages keys, and whenever ProgressStages is non-empty the
// current Progress is one of its keys.
type CaseRecord struct {
	CaseID   string `json:"case_id"`
	CaseType string `json:"case_type"`
	Client   string `json:"client"`

	Lawyer        string `json:"lawyer,omitempty"`
	LegalAffairs  string `json:"legal_affairs,omitempty"`
	Court         string `json:"court,omitempty"`
	Division      string `json:"division,omitempty"`
	CaseReason    string `json:"case_reason,omitempty"`
	CaseNumber    string `json:"case_number,omitempty"`
	OpposingParty string `json:"opposing_party,omitempty"`

	Progress     string `json:"progress"`
	ProgressDate string `json:"progress_date,omitempty"`

	ProgressStages map[string]string `json:"progress_stages"`
	ProgressNotes  map[string]string `json:"progress_notes,omitempty"`
	ProgressTimes  map[string]string `json:"progress_times,omitempty"`

	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

// NewCaseRecord creates a case with default progress and empty stage maps.
func NewCaseRecord(caseID, caseType, client string) *CaseRecord {
	now := time.Now()
	return &CaseRecord{
		CaseID:         caseID,
		CaseType:       caseType,
		Client:         client,
		Progress:       ProgressPending,
		ProgressStages: make(map[string]string),
		ProgressNotes:  make(map[string]string),
		ProgressTimes:  make(map[string]string),
		CreatedDate:    now,
		UpdatedDate:    now,
	}
}

// Validate checks required fields and the progress-history invariants.
// Returns a sentinel error from this package on failure.
func (r *CaseRecord) Validate() error {
	if r.CaseID == "" || r.CaseType == "" || r.Client == "" {
		return ErrMissingField
	}
	for stage := range r.ProgressNotes {
		if _, ok := r.ProgressStages[stage]; !ok {
			return ErrStageNotFound
		}
	}
	for stage := range r.ProgressTimes {
		if _, ok := r.ProgressStages[stage]; !ok {
			return ErrStageNotFound
		}
	}
	if len(r.ProgressStages) > 0 {
		if _, ok := r.ProgressStages[r.Progress]; !ok {
			return ErrInvalidProgress
		}
	}
	return nil
}

// ensureMaps lazily initializes the stage maps so records decoded from
// older payloads are safe to mutate.
func (r *CaseRecord) ensureMaps() {
	if r.ProgressStages == nil {
		r.ProgressStages = make(map[string]string)
	}
	if r.ProgressNotes == nil {
		r.ProgressNotes = make(map[string]string)
	}
	if r.ProgressTimes == nil {
		r.ProgressTimes = make(map[string]string)
	}
}

// UpdateProgress makes stage the current progress, recording its date.
// An empty date defaults to today. An empty note or timeOfDay removes
// any existing note or time entry for the stage.
func (r *CaseRecord) UpdateProgress(stage, date, note, timeOfDay string) {
	r.ensureMaps()
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	r.Progress = stage
	r.ProgressDate = date
	r.ProgressStages[stage] = date
	r.setStageNote(stage, note)
	r.setStageTime(stage, timeOfDay)
	r.UpdatedDate = time.Now()
}

// AddStage records a stage without advancing the current progress,
// unless the current progress is not itself a recorded stage (a fresh
// record still carries the "pending" placeholder); then the new stage
// becomes current so the progress invariant holds.
func (r *CaseRecord) AddStage(stage, date, note, timeOfDay string) {
	r.ensureMaps()
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	r.ProgressStages[stage] = date
	if note != "" {
		r.ProgressNotes[stage] = note
	}
	if timeOfDay != "" {
		r.ProgressTimes[stage] = timeOfDay
	}
	if _, ok := r.ProgressStages[r.Progress]; !ok {
		r.Progress = stage
		r.ProgressDate = date
	}
	r.UpdatedDate = time.Now()
}

// UpdateStageDate changes the date of a recorded stage. When the stage
// is the current progress the progress date follows. Returns false if
// the stage was never recorded.
func (r *CaseRecord) UpdateStageDate(stage, date string) bool {
	if _, ok := r.ProgressStages[stage]; !ok {
		return false
	}
	r.ProgressStages[stage] = date
	if stage == r.Progress {
		r.ProgressDate = date
	}
	r.UpdatedDate = time.Now()
	return true
}

// UpdateStageNote sets or clears the note of a recorded stage.
// Returns false if the stage was never recorded.
func (r *CaseRecord) UpdateStageNote(stage, note string) bool {
	if _, ok := r.ProgressStages[stage]; !ok {
		return false
	}
	r.ensureMaps()
	r.setStageNote(stage, note)
	r.UpdatedDate = time.Now()
	return true
}

// UpdateStageTime sets or clears the time-of-day of a recorded stage.
// Returns false if the stage was never recorded.
func (r *CaseRecord) UpdateStageTime(stage, timeOfDay string) bool {
	if _, ok := r.ProgressStages[stage]; !ok {
		return false
	}
	r.ensureMaps()
	r.setStageTime(stage, timeOfDay)
	r.UpdatedDate = time.Now()
	return true
}

func (r *CaseRecord) setStageNote(stage, note string) {
	if note != "" {
		r.ProgressNotes[stage] = note
	} else {
		delete(r.ProgressNotes, stage)
	}
}

func (r *CaseRecord) setStageTime(stage, timeOfDay string) {
	if timeOfDay != "" {
		r.ProgressTimes[stage] = timeOfDay
	} else {
		delete(r.ProgressTimes, stage)
	}
}

// RemoveStage deletes a stage together with its note and time entries.
// When the removed stage was the current progress, the stage with the
// latest date among the remaining ones becomes current (ties broken by
// stage name); with no stages left the progress becomes empty.
// Returns false if the stage was never recorded.
func (r *CaseRecord) RemoveStage(stage string) bool {
	if _, ok := r.ProgressStages[stage]; !ok {
		return false
	}
	delete(r.ProgressStages, stage)
	delete(r.ProgressNotes, stage)
	delete(r.ProgressTimes, stage)

	if stage == r.Progress {
		r.Progress, r.ProgressDate = r.latestStage()
	}
	r.UpdatedDate = time.Now()
	return true
}

// latestStage returns the stage with the lexicographically-latest date
// string, breaking date ties by the larger stage name. Returns empty
// strings when no stages are recorded.
func (r *CaseRecord) latestStage() (stage, date string) {
	for s, d := range r.ProgressStages {
		if stage == "" || d > date || (d == date && s > stage) {
			stage, date = s, d
		}
	}
	return stage, date
}

// StageNote returns the note recorded for a stage, or "".
func (r *CaseRecord) StageNote(stage string) string {
	return r.ProgressNotes[stage]
}

// StageTime returns the time-of-day recorded for a stage, or "".
func (r *CaseRecord) StageTime(stage string) string {
	return r.ProgressTimes[stage]
}

// HasStage reports whether a stage has been recorded.
func (r *CaseRecord) HasStage(stage string) bool {
	_, ok := r.ProgressStages[stage]
	return ok
}

// StageEntry is one (stage, date) pair from the progress history.
type StageEntry struct {
	Stage string
	Date  string
}

// OrderedStages returns the progress history sorted by date then stage
// name. Stages without a date sort last.
func (r *CaseRecord) OrderedStages() []StageEntry {
	entries := make([]StageEntry, 0, len(r.ProgressStages))
	for s, d := range r.ProgressStages {
		entries = append(entries, StageEntry{Stage: s, Date: d})
	}
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].Date, entries[j].Date
		if di == "" {
			di = "9999-12-31"
		}
		if dj == "" {
			dj = "9999-12-31"
		}
		if di != dj {
			return di < dj
		}
		return entries[i].Stage < entries[j].Stage
	})
	return entries
}

// Clone returns a deep copy of the record. The stage maps are copied so
// mutating the clone never touches the original.
func (r *CaseRecord) Clone() *CaseRecord {
	cp := *r
	cp.ProgressStages = copyMap(r.ProgressStages)
	cp.ProgressNotes = copyMap(r.ProgressNotes)
	cp.ProgressTimes = copyMap(r.ProgressTimes)
	return &cp
}

func copyMap(m map[string]string) map[string]string {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
