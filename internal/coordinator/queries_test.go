package coordinator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhaus/casekeeper/pkg/types"
)

func TestRenameCaseID(t *testing.T) {
	t.Run("rewrites every store", func(t *testing.T) {
		f := newFixture(t)
		f.addCase(t, "113001", "civil", "Acme Corp")
		report := f.coord.AddStage("113001", "civil", "filed", "2024-03-01", "", "")
		require.True(t, report.OK, report.Message())

		exportPath := filepath.Join(f.dataDir, "exports", "cases.csv")
		require.True(t, f.coord.ExportCases(exportPath).OK)

		report = f.coord.RenameCaseID("113001", "civil", "113099")
		require.True(t, report.Clean(), report.Message())

		assert.Nil(t, f.store.FindByIDAndType("113001", "civil"))
		assert.NotNil(t, f.store.FindByIDAndType("113099", "civil"))

		data, err := os.ReadFile(exportPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "113099")
		assert.NotContains(t, string(data), "113001")

		assert.FileExists(t, filepath.Join(f.dataDir, "progress", "113099.log"))
		assert.NoFileExists(t, filepath.Join(f.dataDir, "progress", "113001.log"))
	})

	tests := []struct {
		name  string
		oldID string
		newID string
	}{
		{"same identifier", "113001", "113001"},
		{"empty new identifier", "113001", ""},
		{"unknown old identifier", "999999", "113099"},
		{"new identifier in use", "113001", "113002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addCase(t, "113001", "civil", "Acme Corp")
			f.addCase(t, "113002", "civil", "Beta LLC")

			report := f.coord.RenameCaseID(tt.oldID, "civil", tt.newID)
			assert.False(t, report.OK)
			step, ok := report.Step(types.StepValidate)
			require.True(t, ok)
			assert.False(t, step.OK)
			assert.NotNil(t, f.store.FindByIDAndType("113001", "civil"), "failed rename mutates nothing")
		})
	}
}

func TestFolderQueries(t *testing.T) {
	f := newFixture(t)
	rec := f.addCase(t, "113001", "civil", "Acme Corp")
	report := f.coord.AddStage("113001", "civil", "filed", "2024-03-01", "", "")
	require.True(t, report.Clean(), report.Message())

	t.Run("case path", func(t *testing.T) {
		path, exists, err := f.coord.FolderPath("113001", "civil")
		require.NoError(t, err)
		assert.Equal(t, f.tree.CasePath(rec), path)
		assert.True(t, exists)
	})

	t.Run("stage path", func(t *testing.T) {
		path, exists, err := f.coord.StageFolderPath("113001", "civil", "filed")
		require.NoError(t, err)
		assert.Equal(t, f.tree.StagePath(rec, "filed"), path)
		assert.True(t, exists)
	})

	t.Run("unknown stage", func(t *testing.T) {
		_, _, err := f.coord.StageFolderPath("113001", "civil", "verdict")
		assert.ErrorIs(t, err, types.ErrStageNotFound)
	})

	t.Run("unknown case", func(t *testing.T) {
		_, _, err := f.coord.FolderPath("999999", "civil")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("info", func(t *testing.T) {
		info, err := f.coord.FolderInfo("113001", "civil")
		require.NoError(t, err)
		assert.True(t, info.Exists)
		assert.True(t, info.Valid)
	})
}

func TestImportCases(t *testing.T) {
	exportFixture := func(t *testing.T) string {
		f := newFixture(t)
		rec := f.addCase(t, "113001", "civil", "Acme Corp")
		rec.Lawyer = "Chen"
		require.True(t, f.coord.UpdateCase(rec).OK)
		path := filepath.Join(f.dataDir, "exports", "cases.csv")
		require.True(t, f.coord.ExportCases(path).OK)
		return path
	}

	t.Run("new cases are imported with folders", func(t *testing.T) {
		path := exportFixture(t)
		f := newFixture(t)

		report, merged := f.coord.ImportCases(path, types.MergeSkip)
		require.True(t, report.Clean(), report.Message())
		assert.Equal(t, 1, merged.Imported)

		got := f.store.FindByIDAndType("113001", "civil")
		require.NotNil(t, got)
		assert.Equal(t, "Chen", got.Lawyer)
		assert.DirExists(t, f.tree.CasePath(got))
	})

	t.Run("skip keeps existing records", func(t *testing.T) {
		path := exportFixture(t)
		f := newFixture(t)
		f.addCase(t, "113001", "civil", "Local Client")

		_, merged := f.coord.ImportCases(path, types.MergeSkip)
		assert.Equal(t, 1, merged.Skipped)
		assert.Equal(t, "Local Client", f.store.FindByIDAndType("113001", "civil").Client)
	})

	t.Run("replace overwrites existing records", func(t *testing.T) {
		path := exportFixture(t)
		f := newFixture(t)
		local := f.addCase(t, "113001", "civil", "Local Client")

		_, merged := f.coord.ImportCases(path, types.MergeReplace)
		assert.Equal(t, 1, merged.Replaced)
		got := f.store.FindByIDAndType("113001", "civil")
		assert.Equal(t, "Acme Corp", got.Client)
		assert.Equal(t, local.CreatedDate, got.CreatedDate, "creation timestamp survives the replace")
	})

	t.Run("update fills empty fields only", func(t *testing.T) {
		path := exportFixture(t)
		f := newFixture(t)
		local := f.addCase(t, "113001", "civil", "Local Client")
		local.Court = "District Court"
		require.True(t, f.coord.UpdateCase(local).OK)

		_, merged := f.coord.ImportCases(path, types.MergeUpdate)
		assert.Equal(t, 1, merged.Updated)
		got := f.store.FindByIDAndType("113001", "civil")
		assert.Equal(t, "Local Client", got.Client, "populated field untouched")
		assert.Equal(t, "District Court", got.Court)
		assert.Equal(t, "Chen", got.Lawyer, "empty field filled from the import")
	})

	t.Run("missing file fails", func(t *testing.T) {
		f := newFixture(t)
		report, _ := f.coord.ImportCases(filepath.Join(f.dataDir, "nope.csv"), types.MergeSkip)
		assert.False(t, report.OK)
	})
}

func TestExportCasesWithoutExporter(t *testing.T) {
	f := newFixture(t)
	coord := New(Options{Store: f.store, DataDir: f.dataDir})

	report := coord.ExportCases(filepath.Join(f.dataDir, "out.csv"))
	assert.False(t, report.OK)
}
