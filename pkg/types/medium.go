package types

// Medium is the minimum persistence contract behind the metadata store:
// load every record, persist every record. Implementations exist for a
// JSON file, an injected in-memory set, and relational tables (SQLite,
// PostgreSQL); the store itself never knows which one it talks to.
type Medium interface {
	// LoadAll returns every persisted record. A missing backing store is
	// not an error; it yields an empty slice.
	LoadAll() ([]*CaseRecord, error)

	// SaveAll persists the full record set, replacing the previous
	// contents. Records are not considered durable until this returns.
	SaveAll(records []*CaseRecord) error

	// Close releases backing resources. Idempotent.
	Close() error
}

// Supported backend schemes for OpenMedium DSNs.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendEnv      = "env"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)
