package coordinator

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhaus/casekeeper/internal/foldertree"
	"github.com/lexhaus/casekeeper/internal/metastore"
	"github.com/lexhaus/casekeeper/internal/tabular"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// fixture wires a coordinator over a memory medium, a real folder tree
// and a CSV exporter, all rooted in a temp directory.
type fixture struct {
	coord   *Coordinator
	store   *metastore.Store
	tree    *foldertree.Tree
	dataDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dataDir := t.TempDir()

	store := metastore.New(metastore.NewMemoryMedium(nil), nil)
	require.NoError(t, store.Load())

	tree := foldertree.New(filepath.Join(dataDir, "cases"), nil, nil)
	exporter := tabular.New(filepath.Join(dataDir, "exports"), nil)

	coord := New(Options{
		Store:    store,
		Folders:  tree,
		Exporter: exporter,
		DataDir:  dataDir,
	})
	return &fixture{coord: coord, store: store, tree: tree, dataDir: dataDir}
}

func (f *fixture) addCase(t *testing.T, id, caseType, client string) *types.CaseRecord {
	t.Helper()
	rec := types.NewCaseRecord(id, caseType, client)
	report := f.coord.AddCase(rec)
	require.True(t, report.OK, report.Message())
	return rec
}

func TestAddCase(t *testing.T) {
	f := newFixture(t)
	rec := f.addCase(t, "113001", "civil", "Acme Corp")

	assert.NotNil(t, f.store.FindByIDAndType("113001", "civil"))
	assert.DirExists(t, f.tree.CasePath(rec))
	assert.DirExists(t, filepath.Join(f.tree.CasePath(rec), foldertree.InfoDirName))
}

func TestAddCaseDuplicateAborts(t *testing.T) {
	f := newFixture(t)
	f.addCase(t, "113001", "civil", "Acme Corp")

	report := f.coord.AddCase(types.NewCaseRecord("113001", "civil", "Other"))
	assert.False(t, report.OK)
	step, ok := report.Step(types.StepMetadata)
	require.True(t, ok)
	assert.False(t, step.OK)
	// The stored record is untouched.
	assert.Equal(t, "Acme Corp", f.store.FindByIDAndType("113001", "civil").Client)
}

func TestAddCaseFolderFailureDoesNotAbort(t *testing.T) {
	f := newFixture(t)
	// A path-only fallback cannot create structures, so the folder step
	// fails while the metadata step stands.
	coord := New(Options{
		Store:   f.store,
		BaseDir: filepath.Join(f.dataDir, "cases"),
		DataDir: f.dataDir,
	})

	report := coord.AddCase(types.NewCaseRecord("113002", "civil", "Beta LLC"))
	assert.True(t, report.OK)
	assert.False(t, report.Clean())
	step, ok := report.Step(types.StepFolder)
	require.True(t, ok)
	assert.False(t, step.OK)
	assert.NotNil(t, f.store.FindByIDAndType("113002", "civil"))
}

func TestDeleteCase(t *testing.T) {
	t.Run("with folder", func(t *testing.T) {
		f := newFixture(t)
		rec := f.addCase(t, "113001", "civil", "Acme Corp")

		report := f.coord.DeleteCase("113001", "civil", true)
		assert.True(t, report.Clean(), report.Message())
		assert.Nil(t, f.store.FindByIDAndType("113001", "civil"))
		assert.NoDirExists(t, f.tree.CasePath(rec))
	})

	t.Run("keeping the folder", func(t *testing.T) {
		f := newFixture(t)
		rec := f.addCase(t, "113001", "civil", "Acme Corp")

		report := f.coord.DeleteCase("113001", "civil", false)
		assert.True(t, report.OK)
		_, hasFolderStep := report.Step(types.StepFolder)
		assert.False(t, hasFolderStep, "no folder step when deletion was not requested")
		assert.DirExists(t, f.tree.CasePath(rec))
	})

	t.Run("absent folder reports success", func(t *testing.T) {
		f := newFixture(t)
		rec := f.addCase(t, "113001", "civil", "Acme Corp")
		require.NoError(t, f.tree.Delete(rec))

		report := f.coord.DeleteCase("113001", "civil", true)
		require.True(t, report.Clean(), report.Message())
		step, _ := report.Step(types.StepFolder)
		assert.Equal(t, "already absent", step.Detail)
	})

	t.Run("unknown case", func(t *testing.T) {
		f := newFixture(t)
		report := f.coord.DeleteCase("999999", "civil", true)
		assert.False(t, report.OK)
	})

	t.Run("ambiguous id without type", func(t *testing.T) {
		f := newFixture(t)
		f.addCase(t, "113001", "civil", "Acme Corp")
		f.addCase(t, "113001", "criminal", "Acme Corp")

		report := f.coord.DeleteCase("113001", "", true)
		assert.False(t, report.OK)
		assert.NotNil(t, f.store.FindByIDAndType("113001", "civil"))
		assert.NotNil(t, f.store.FindByIDAndType("113001", "criminal"))
	})

	t.Run("unambiguous id without type", func(t *testing.T) {
		f := newFixture(t)
		f.addCase(t, "113001", "civil", "Acme Corp")

		report := f.coord.DeleteCase("113001", "", false)
		assert.True(t, report.OK, report.Message())
	})
}

func TestStageSagas(t *testing.T) {
	f := newFixture(t)
	rec := f.addCase(t, "113001", "civil", "Acme Corp")

	t.Run("add stage", func(t *testing.T) {
		report := f.coord.AddStage("113001", "civil", "filed", "2024-03-01", "initial", "")
		require.True(t, report.Clean(), report.Message())

		got := f.store.FindByIDAndType("113001", "civil")
		assert.Equal(t, "filed", got.Progress)
		assert.DirExists(t, f.tree.StagePath(rec, "filed"))
	})

	t.Run("update stage", func(t *testing.T) {
		report := f.coord.UpdateStage("113001", "civil", "filed", "2024-03-15", "amended", "14:00")
		require.True(t, report.OK, report.Message())

		got := f.store.FindByIDAndType("113001", "civil")
		assert.Equal(t, "2024-03-15", got.ProgressStages["filed"])
		assert.Equal(t, "amended", got.StageNote("filed"))
		assert.Equal(t, "14:00", got.StageTime("filed"))
	})

	t.Run("update unknown stage", func(t *testing.T) {
		report := f.coord.UpdateStage("113001", "civil", "verdict", "", "", "")
		assert.False(t, report.OK)
	})

	t.Run("remove stage keeps its folder", func(t *testing.T) {
		report := f.coord.RemoveStage("113001", "civil", "filed")
		require.True(t, report.OK, report.Message())

		got := f.store.FindByIDAndType("113001", "civil")
		assert.False(t, got.HasStage("filed"))
		assert.Empty(t, got.Progress)
		// Files under the stage folder may be the only copy.
		assert.DirExists(t, f.tree.StagePath(rec, "filed"))
	})

	t.Run("remove unknown stage", func(t *testing.T) {
		report := f.coord.RemoveStage("113001", "civil", "filed")
		assert.False(t, report.OK)
	})
}

func TestStageMutationNotCommittedWhenSaveFails(t *testing.T) {
	medium := &flakyMedium{}
	store := metastore.New(medium, nil)
	require.NoError(t, store.Load())
	dataDir := t.TempDir()
	coord := New(Options{
		Store:   store,
		Folders: foldertree.New(filepath.Join(dataDir, "cases"), nil, nil),
		DataDir: dataDir,
	})

	report := coord.AddCase(types.NewCaseRecord("113001", "civil", "Acme Corp"))
	require.True(t, report.OK, report.Message())

	medium.failing = true
	report = coord.AddStage("113001", "civil", "filed", "2024-03-01", "", "")
	assert.False(t, report.OK)

	// The in-memory record still reflects the last durable state.
	got := store.FindByIDAndType("113001", "civil")
	assert.Equal(t, types.ProgressPending, got.Progress)
	assert.False(t, got.HasStage("filed"))
}

// flakyMedium fails SaveAll on demand.
type flakyMedium struct {
	failing  bool
	snapshot []*types.CaseRecord
}

func (m *flakyMedium) LoadAll() ([]*types.CaseRecord, error) { return m.snapshot, nil }

func (m *flakyMedium) SaveAll(records []*types.CaseRecord) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.snapshot = records
	return nil
}

func (m *flakyMedium) Close() error { return nil }
