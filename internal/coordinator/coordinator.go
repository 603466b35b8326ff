// Package coordinator orchestrates multi-store case operations across
// the metadata store, the folder tree and the tabular exports. Every
// mutating operation is a short saga: the metadata store is written
// first and is authoritative, the mirrors follow best-effort, and the
// per-step outcomes are aggregated into a Report so callers can branch
// on partial failure.
//
// No ACID guarantees span the stores and no cross-process locking is
// attempted: the engine assumes a single active writer, and concurrent
// writers against the same backing medium resolve last-writer-wins.
package coordinator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/internal/metastore"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// Options configures a Coordinator.
type Options struct {
	Store    *metastore.Store
	Folders  FolderManager  // nil selects the path-only fallback
	Exporter types.Exporter // nil disables export mirroring
	DataDir  string         // progress-log artifacts live under DataDir/progress

	// BaseDir and TypeFolders feed the path-only fallback when no
	// folder backend is supplied.
	BaseDir     string
	TypeFolders map[string]string

	Logger *zap.Logger
}

// Coordinator owns no data, only the orchestration logic. The metadata
// store always wins on conflict.
type Coordinator struct {
	store    *metastore.Store
	folders  folderCaps
	exporter types.Exporter
	progress *progressLog
	logger   *zap.Logger
}

// New resolves the folder backend's capabilities once and returns a
// ready coordinator.
func New(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:    opts.Store,
		folders:  resolveFolderCaps(opts.Folders, opts.BaseDir, opts.TypeFolders, logger),
		exporter: opts.Exporter,
		progress: newProgressLog(progressLogDir(opts.DataDir), logger),
		logger:   logger,
	}
}

func progressLogDir(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, "progress")
}

// AddCase inserts a record into the metadata store and mirrors it as a
// folder structure. Metadata failure aborts; folder failure is recorded
// and retryable later, the insertion stands.
func (c *Coordinator) AddCase(rec *types.CaseRecord) types.Report {
	op := c.opLogger("add-case", rec.CaseID, rec.CaseType)

	var report types.Report
	if err := c.store.Add(rec); err != nil {
		op.Warn("metadata insert failed", zap.Error(err))
		return types.Fail(types.StepMetadata, err.Error())
	}
	report.OK = true
	report.Add(types.StepMetadata, true, "case added")

	if c.folders.creator == nil {
		report.Add(types.StepFolder, false, "folder backend cannot create structures")
		return report
	}
	if err := c.folders.creator.CreateStructure(rec); err != nil {
		op.Warn("folder structure creation failed", zap.Error(err))
		report.Add(types.StepFolder, false, err.Error())
		return report
	}
	report.Add(types.StepFolder, true, c.folders.paths.CasePath(rec))
	return report
}

// UpdateCase replaces a record's metadata. Folder and export mirrors
// are not reconciled here: in particular a client rename orphans the
// old directory, a known limitation of the path layout.
func (c *Coordinator) UpdateCase(rec *types.CaseRecord) types.Report {
	if err := c.store.Update(rec); err != nil {
		return types.Fail(types.StepMetadata, err.Error())
	}
	var report types.Report
	report.OK = true
	report.Add(types.StepMetadata, true, "case updated")
	return report
}

// DeleteCase removes a case. With an empty caseType the record is
// resolved by id alone, failing when absent or ambiguous across
// partitions. Folder deletion, when requested, runs first and its
// failure is recorded without blocking the metadata delete; callers
// branch on the folder step to schedule manual cleanup.
func (c *Coordinator) DeleteCase(caseID, caseType string, deleteFolder bool) types.Report {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return types.Fail(types.StepMetadata, err.Error())
	}
	op := c.opLogger("delete-case", rec.CaseID, rec.CaseType)

	var report types.Report
	if deleteFolder {
		report.Add(c.deleteFolderStep(rec, op))
	}

	if err := c.store.Delete(rec.CaseID, rec.CaseType); err != nil {
		op.Warn("metadata delete failed", zap.Error(err))
		report.Add(types.StepMetadata, false, err.Error())
		return report
	}
	report.OK = true
	report.Add(types.StepMetadata, true, "case deleted")
	return report
}

// deleteFolderStep attempts the folder-mirror deletion and reports the
// outcome. Already-absent folders are success, and a deletion that
// reports success while the directory survives is downgraded to failure
// by the tree's post-removal check.
func (c *Coordinator) deleteFolderStep(rec *types.CaseRecord, op *zap.Logger) (string, bool, string) {
	path := c.folders.paths.CasePath(rec)
	if c.folders.remover == nil {
		return types.StepFolder, false, "folder backend cannot delete folders"
	}
	if !dirExists(path) {
		return types.StepFolder, true, "already absent"
	}
	if err := c.folders.remover.Delete(rec); err != nil {
		op.Warn("folder deletion failed", zap.Error(err))
		return types.StepFolder, false, err.Error()
	}
	return types.StepFolder, true, "folder removed"
}

// RenameCaseID changes a case identifier across every store. Only the
// metadata step is authoritative: its failure aborts the saga, while
// export and progress-log rewrites are regenerable mirrors whose
// failures are surfaced but never revert the rename.
func (c *Coordinator) RenameCaseID(oldID, caseType, newID string) types.Report {
	op := c.opLogger("rename-case-id", oldID, caseType)

	var report types.Report
	if newID == "" || newID == oldID {
		return types.Fail(types.StepValidate, "new case id must be non-empty and different")
	}
	if c.store.FindByIDAndType(oldID, caseType) == nil {
		return types.Fail(types.StepValidate, types.ErrNotFound.Error())
	}
	if c.store.FindByIDAndType(newID, caseType) != nil {
		return types.Fail(types.StepValidate, types.ErrIDInUse.Error())
	}
	report.Add(types.StepValidate, true, "")

	if err := c.store.RenameID(oldID, caseType, newID); err != nil {
		op.Warn("metadata rename failed", zap.Error(err))
		report.Add(types.StepMetadata, false, err.Error())
		return report
	}
	report.OK = true
	report.Add(types.StepMetadata, true, fmt.Sprintf("%s renamed to %s", oldID, newID))

	if c.exporter != nil {
		if touched, err := c.exporter.RewriteCaseID(oldID, newID); err != nil {
			op.Warn("export rewrite failed", zap.Error(err))
			report.Add(types.StepExports, false, err.Error())
		} else {
			report.Add(types.StepExports, true, fmt.Sprintf("%d file(s) rewritten", touched))
		}
	}

	if err := c.progress.Rename(oldID, newID); err != nil {
		op.Warn("progress log rename failed", zap.Error(err))
		report.Add(types.StepProgressLog, false, err.Error())
	} else {
		report.Add(types.StepProgressLog, true, "")
	}
	return report
}

// resolve finds the record for an operation. An empty caseType resolves
// by id alone and fails when the id is absent or ambiguous across
// case-type partitions.
func (c *Coordinator) resolve(caseID, caseType string) (*types.CaseRecord, error) {
	if caseType != "" {
		rec := c.store.FindByIDAndType(caseID, caseType)
		if rec == nil {
			return nil, types.ErrNotFound
		}
		return rec, nil
	}
	hits := c.store.FindAllByID(caseID)
	switch len(hits) {
	case 0:
		return nil, types.ErrNotFound
	case 1:
		return hits[0], nil
	default:
		return nil, fmt.Errorf("case id %s is ambiguous across %d case types", caseID, len(hits))
	}
}

// opLogger tags saga log lines with a correlation id so the per-step
// warnings of one operation can be grouped.
func (c *Coordinator) opLogger(op, caseID, caseType string) *zap.Logger {
	return c.logger.With(
		zap.String("op", op),
		zap.String("op_id", uuid.NewString()),
		zap.String("case_id", caseID),
		zap.String("case_type", caseType),
	)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
