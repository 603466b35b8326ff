package metastore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// FileMedium persists case records as one JSON array in a single file.
// Saves are atomic (temp file, fsync, rename) and keep the previous
// payload as a .bak sibling. Loads fail soft: unreadable records are
// skipped and a corrupt payload falls back to the backup snapshot.
type FileMedium struct {
	path   string
	logger *zap.Logger
	closed bool
}

// NewFileMedium creates a medium over the given file path. The parent
// directory is created on first save if absent.
func NewFileMedium(path string, logger *zap.Logger) *FileMedium {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileMedium{path: path, logger: logger}
}

// LoadAll reads every record from the data file. A missing file yields
// an empty slice. When the payload does not parse, the .bak snapshot is
// tried before giving up and starting empty.
func (m *FileMedium) LoadAll() ([]*types.CaseRecord, error) {
	if m.closed {
		return nil, types.ErrMediumClosed
	}
	records, err := decodeRecordFile(m.path)
	if err == nil {
		return records, nil
	}
	if os.IsNotExist(err) {
		return nil, nil
	}

	m.logger.Warn("case data file unreadable, trying backup",
		zap.String("path", m.path), zap.Error(err))

	records, bakErr := decodeRecordFile(m.path + ".bak")
	if bakErr == nil {
		m.logger.Warn("loaded case data from backup snapshot",
			zap.String("path", m.path+".bak"), zap.Int("count", len(records)))
		return records, nil
	}
	m.logger.Warn("backup snapshot unreadable, starting empty",
		zap.Error(bakErr))
	return nil, nil
}

// SaveAll writes all records atomically, preserving the previous payload
// as path.bak.
func (m *FileMedium) SaveAll(records []*types.CaseRecord) error {
	if m.closed {
		return types.ErrMediumClosed
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Keep the previous payload around for fail-soft loads.
	if prev, err := os.ReadFile(m.path); err == nil {
		if err := os.WriteFile(m.path+".bak", prev, 0o644); err != nil {
			m.logger.Warn("writing backup snapshot failed", zap.Error(err))
		}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding case records: %w", err)
	}
	return writeFileAtomic(m.path, payload)
}

// Close marks the medium closed. Idempotent.
func (m *FileMedium) Close() error {
	m.closed = true
	return nil
}

// decodeRecordFile parses a JSON array of case records, skipping
// entries that do not decode.
func decodeRecordFile(path string) ([]*types.CaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	records := make([]*types.CaseRecord, 0, len(raw))
	for _, entry := range raw {
		var rec types.CaseRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			// Skip unreadable records rather than failing the load.
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cases-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing payload: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
