package types

import "errors"

// Store operation errors. Expected conditions (not-found, duplicates,
// validation failures) surface as these sentinels, never as panics.
var (
	ErrNotFound        = errors.New("case not found")
	ErrDuplicateID     = errors.New("case id already exists in this case type")
	ErrMissingField    = errors.New("case id, case type and client are required")
	ErrStageNotFound   = errors.New("stage not recorded for this case")
	ErrInvalidProgress = errors.New("progress is not a recorded stage")
	ErrIDInUse         = errors.New("target case id already in use")
)

// Medium and backend errors.
var (
	ErrMediumClosed  = errors.New("storage medium is closed")
	ErrUnknownScheme = errors.New("unknown storage backend scheme")
)

// ErrIntegrity marks a mirror operation that reported success while the
// resource is still present on disk. Reported success is downgraded to
// failure when this is detected.
var ErrIntegrity = errors.New("resource still present after reported removal")
