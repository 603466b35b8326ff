// Package foldertree resolves and manipulates the on-disk directory
// mirror of case records: one folder per case, grouped by case type,
// with one sub-folder per recorded progress stage.
//
// The tree is a mirror, never a source of truth. It does not create or
// delete case records, and a metadata-level client rename orphans the
// previously resolved directory; only case-id renames are reconciled by
// the coordinator.
package foldertree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// InfoDirName is the fixed sub-directory every case folder carries for
// general paperwork that belongs to no particular stage.
const InfoDirName = "case-info"

// Tree maps case records onto directories under a base path using a
// case-type → folder-name table. Unknown case types fall back to the
// raw case-type string, so path resolution is total.
type Tree struct {
	baseDir     string
	typeFolders map[string]string
	logger      *zap.Logger
}

// New creates a tree rooted at baseDir. typeFolders maps case types to
// directory names and may be nil. A nil logger defaults to zap.NewNop().
func New(baseDir string, typeFolders map[string]string, logger *zap.Logger) *Tree {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tree{baseDir: baseDir, typeFolders: typeFolders, logger: logger}
}

// BaseDir returns the configured root of the tree.
func (t *Tree) BaseDir() string {
	return t.baseDir
}

// CasePath computes the directory for a record without touching the
// filesystem: baseDir / type-folder / client.
func (t *Tree) CasePath(rec *types.CaseRecord) string {
	folder, ok := t.typeFolders[rec.CaseType]
	if !ok {
		folder = rec.CaseType
	}
	return filepath.Join(t.baseDir, sanitize(folder), sanitize(rec.Client))
}

// ResolvePath returns the record's directory when it exists on disk.
// It never creates anything; absent directories resolve to ("", false).
func (t *Tree) ResolvePath(rec *types.CaseRecord) (string, bool) {
	path := t.CasePath(rec)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, true
	}
	return "", false
}

// StagePath computes the sub-directory for one progress stage.
func (t *Tree) StagePath(rec *types.CaseRecord, stage string) string {
	return filepath.Join(t.CasePath(rec), sanitize(stage))
}

// ResolveStagePath returns the stage sub-directory when it exists.
func (t *Tree) ResolveStagePath(rec *types.CaseRecord, stage string) (string, bool) {
	path := t.StagePath(rec, stage)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, true
	}
	return "", false
}

// CreateStructure idempotently ensures the case directory, its fixed
// info sub-directory and one sub-directory per recorded stage exist,
// creating the case-type parent first when absent. A fully existing
// structure is success.
func (t *Tree) CreateStructure(rec *types.CaseRecord) error {
	casePath := t.CasePath(rec)
	dirs := []string{casePath, filepath.Join(casePath, InfoDirName)}
	for stage := range rec.ProgressStages {
		dirs = append(dirs, t.StagePath(rec, stage))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	t.logger.Debug("case folder structure ensured",
		zap.String("case_id", rec.CaseID), zap.String("path", casePath))
	return nil
}

// CreateStageDir ensures the sub-directory for one stage exists.
func (t *Tree) CreateStageDir(rec *types.CaseRecord, stage string) error {
	if err := os.MkdirAll(t.StagePath(rec, stage), 0o755); err != nil {
		return fmt.Errorf("creating stage dir: %w", err)
	}
	return nil
}

// Delete recursively removes the case directory. An already absent
// directory is success. After removal the path is re-checked: the
// deletion primitive can report success while nested content survives
// (permission errors), and that state must surface as ErrIntegrity
// rather than a false success.
func (t *Tree) Delete(rec *types.CaseRecord) error {
	path := t.CasePath(rec)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	if _, err := os.Stat(path); err == nil {
		t.logger.Warn("case folder still present after removal",
			zap.String("path", path))
		return fmt.Errorf("%w: %s", types.ErrIntegrity, path)
	}
	return nil
}

// Info is a read-only diagnostic snapshot of a case directory.
type Info struct {
	Exists    bool   `json:"exists"`
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
	TotalSize int64  `json:"total_size"`
	Valid     bool   `json:"valid"`
	Problem   string `json:"problem,omitempty"`
}

// Info walks the case directory and reports existence, file count and
// total size. It never mutates the tree.
func (t *Tree) Info(rec *types.CaseRecord) Info {
	path := t.CasePath(rec)
	info := Info{Path: path}

	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return info
	}
	if err != nil {
		info.Problem = err.Error()
		return info
	}
	if !stat.IsDir() {
		info.Exists = true
		info.Problem = "path is not a directory"
		return info
	}

	info.Exists = true
	info.Valid = true
	walkErr := filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			info.FileCount++
			info.TotalSize += fi.Size()
		}
		return nil
	})
	if walkErr != nil {
		info.Valid = false
		info.Problem = walkErr.Error()
	}
	return info
}

// sanitize strips path separators from a single path component so a
// client or stage name can never escape the case directory.
func sanitize(component string) string {
	component = strings.ReplaceAll(component, string(os.PathSeparator), "_")
	return strings.ReplaceAll(component, "/", "_")
}
