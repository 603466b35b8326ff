// Package integration provides shared test helpers for integration tests.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/internal/coordinator"
	"github.com/lexhaus/casekeeper/internal/foldertree"
	"github.com/lexhaus/casekeeper/internal/metastore"
	"github.com/lexhaus/casekeeper/internal/tabular"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// engine bundles the fully wired stack for one test: a SQLite-backed
// metadata store, a folder tree, a CSV exporter and the coordinator,
// all rooted in an isolated temp directory.
type engine struct {
	coord     *coordinator.Coordinator
	store     *metastore.Store
	tree      *foldertree.Tree
	exporter  *tabular.CSVExporter
	dataDir   string
	exportDir string
}

// setupEngine wires the full stack against a temp directory. Each test
// gets its own instance for isolation.
func setupEngine(t *testing.T) *engine {
	t.Helper()
	dataDir := t.TempDir()

	medium, err := metastore.NewSQLiteMedium(filepath.Join(dataDir, "cases.db"), zap.NewNop())
	require.NoError(t, err)

	store := metastore.New(medium, zap.NewNop())
	require.NoError(t, store.Load())
	t.Cleanup(func() { store.Close() })

	tree := foldertree.New(filepath.Join(dataDir, "cases"), map[string]string{"civil": "Civil"}, zap.NewNop())
	exportDir := filepath.Join(dataDir, "exports")
	exporter := tabular.New(exportDir, zap.NewNop())

	coord := coordinator.New(coordinator.Options{
		Store:    store,
		Folders:  tree,
		Exporter: exporter,
		DataDir:  dataDir,
	})

	return &engine{
		coord:     coord,
		store:     store,
		tree:      tree,
		exporter:  exporter,
		dataDir:   dataDir,
		exportDir: exportDir,
	}
}

// mustAddCase creates a case through the coordinator and fails the test
// unless every saga step succeeded.
func mustAddCase(t *testing.T, e *engine, id, caseType, client string) *types.CaseRecord {
	t.Helper()
	rec := types.NewCaseRecord(id, caseType, client)
	report := e.coord.AddCase(rec)
	require.True(t, report.Clean(), "add case: %s", report.Message())
	return rec
}
