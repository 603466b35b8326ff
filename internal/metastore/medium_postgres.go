package metastore

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// NewPostgresMedium connects to PostgreSQL with the given DSN and
// ensures the cases table exists. The table schema matches the SQLite
// medium; only placeholder style differs.
func NewPostgresMedium(dsn string, logger *zap.Logger) (*SQLMedium, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN must not be empty")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return newSQLMedium(db, dollarPlaceholder, logger)
}

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }
