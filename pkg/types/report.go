package types

import "strings"

// Step names used by the coordinator's sagas.
const (
	StepMetadata    = "metadata"
	StepFolder      = "folder"
	StepExports     = "exports"
	StepProgressLog = "progress-log"
	StepValidate    = "validate"
)

// Step is the outcome of one sub-store operation inside a saga.
type Step struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates the outcome of a multi-store operation. OK reflects
// only the authoritative metadata step; mirror failures are visible in
// Steps so callers can schedule reconciliation.
type Report struct {
	OK    bool   `json:"ok"`
	Steps []Step `json:"steps,omitempty"`
}

// Fail returns a failed single-step report.
func Fail(step, detail string) Report {
	return Report{OK: false, Steps: []Step{{Name: step, Detail: detail}}}
}

// Add appends a step outcome.
func (r *Report) Add(name string, ok bool, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, OK: ok, Detail: detail})
}

// Step returns the named step and whether it is present.
func (r Report) Step(name string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// Clean reports whether every recorded step succeeded, not just the
// authoritative one.
func (r Report) Clean() bool {
	if !r.OK {
		return false
	}
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// Message composes a human-readable summary enumerating each sub-step.
func (r Report) Message() string {
	parts := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		mark := "ok"
		if !s.OK {
			mark = "failed"
		}
		if s.Detail != "" {
			parts = append(parts, s.Name+" "+mark+" ("+s.Detail+")")
		} else {
			parts = append(parts, s.Name+" "+mark)
		}
	}
	return strings.Join(parts, "; ")
}
