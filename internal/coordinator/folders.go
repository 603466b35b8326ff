package coordinator

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/internal/foldertree"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// FolderManager is the minimum folder-backend contract: pure path
// computation. Everything beyond it is an optional capability.
type FolderManager interface {
	CasePath(rec *types.CaseRecord) string
	StagePath(rec *types.CaseRecord, stage string) string
}

// StructureCreator is the optional capability to materialize case and
// stage directories.
type StructureCreator interface {
	CreateStructure(rec *types.CaseRecord) error
	CreateStageDir(rec *types.CaseRecord, stage string) error
}

// FolderRemover is the optional capability to delete a case directory.
type FolderRemover interface {
	Delete(rec *types.CaseRecord) error
}

// FolderInspector is the optional capability to take diagnostic
// snapshots of a case directory.
type FolderInspector interface {
	Info(rec *types.CaseRecord) foldertree.Info
}

// folderCaps is the capability set resolved once at construction.
// Nil fields mean the backend lacks that capability; sagas then record
// the corresponding mirror step as unsupported instead of probing again
// per call.
type folderCaps struct {
	paths     FolderManager
	creator   StructureCreator
	remover   FolderRemover
	inspector FolderInspector
}

// resolveFolderCaps probes the manager's optional capabilities with one
// interface-satisfaction check each. A nil manager selects the basic
// path-only fallback.
func resolveFolderCaps(m FolderManager, baseDir string, typeFolders map[string]string, logger *zap.Logger) folderCaps {
	if m == nil {
		logger.Warn("no folder backend configured, using path-only fallback")
		m = &basicFolderManager{baseDir: baseDir, typeFolders: typeFolders}
	}
	caps := folderCaps{paths: m}
	if c, ok := m.(StructureCreator); ok {
		caps.creator = c
	} else {
		logger.Warn("folder backend cannot create structures")
	}
	if r, ok := m.(FolderRemover); ok {
		caps.remover = r
	} else {
		logger.Warn("folder backend cannot delete folders")
	}
	if i, ok := m.(FolderInspector); ok {
		caps.inspector = i
	}
	return caps
}

// basicFolderManager is the minimal fallback variant: it computes paths
// from the same configuration the full tree uses but can neither create
// nor delete anything.
type basicFolderManager struct {
	baseDir     string
	typeFolders map[string]string
}

func (b *basicFolderManager) CasePath(rec *types.CaseRecord) string {
	folder, ok := b.typeFolders[rec.CaseType]
	if !ok {
		folder = rec.CaseType
	}
	return filepath.Join(b.baseDir, folder, rec.Client)
}

func (b *basicFolderManager) StagePath(rec *types.CaseRecord, stage string) string {
	return filepath.Join(b.CasePath(rec), stage)
}
