package metastore

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// Default file names inside the data directory.
const (
	DefaultDataFile   = "cases.json"
	DefaultSQLiteFile = "cases.db"
)

// OpenMedium builds a Medium from a DSN. The scheme selects the backing
// store; everything after the colon (when present) overrides the default
// location inside dataDir:
//
//	""                      file medium at dataDir/cases.json
//	file[:path]             JSON file
//	memory                  empty in-memory set
//	env                     records injected via CASEKEEPER_CASES
//	sqlite[:path]           SQLite database file
//	postgres://...          PostgreSQL, DSN passed through verbatim
func OpenMedium(dsn, dataDir string, logger *zap.Logger) (types.Medium, error) {
	dsn = strings.TrimSpace(dsn)
	scheme, rest := splitScheme(dsn)

	switch scheme {
	case "", types.BackendFile:
		path := rest
		if path == "" {
			path = filepath.Join(dataDir, DefaultDataFile)
		}
		return NewFileMedium(path, logger), nil
	case types.BackendMemory:
		return NewMemoryMedium(nil), nil
	case types.BackendEnv:
		return NewEnvMedium()
	case types.BackendSQLite:
		path := rest
		if path == "" {
			path = filepath.Join(dataDir, DefaultSQLiteFile)
		}
		return NewSQLiteMedium(path, logger)
	case types.BackendPostgres, "postgresql":
		return NewPostgresMedium(dsn, logger)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownScheme, scheme)
	}
}

// splitScheme separates a DSN into scheme and remainder. A DSN without a
// colon is all scheme when it names a known backend, otherwise it is
// treated as a bare file path.
func splitScheme(dsn string) (scheme, rest string) {
	idx := strings.Index(dsn, ":")
	if idx < 0 {
		switch strings.ToLower(dsn) {
		case "", types.BackendFile, types.BackendMemory, types.BackendEnv,
			types.BackendSQLite, types.BackendPostgres, "postgresql":
			return strings.ToLower(dsn), ""
		}
		return types.BackendFile, dsn
	}
	scheme = strings.ToLower(dsn[:idx])
	rest = strings.TrimPrefix(dsn[idx+1:], "//")
	return scheme, rest
}
