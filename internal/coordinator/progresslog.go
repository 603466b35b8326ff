package coordinator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// progressLog maintains the per-case progress artifacts: one append-only
// log file per case id recording every stage mutation. The files are
// derived, regenerable data; failures here never block metadata
// durability.
type progressLog struct {
	dir    string
	logger *zap.Logger
}

func newProgressLog(dir string, logger *zap.Logger) *progressLog {
	return &progressLog{dir: dir, logger: logger}
}

// Path returns the log file for a case id.
func (p *progressLog) Path(caseID string) string {
	return filepath.Join(p.dir, caseID+".log")
}

// Append records one stage mutation.
func (p *progressLog) Append(caseID, event, stage, date string) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("creating progress log dir: %w", err)
	}
	f, err := os.OpenFile(p.Path(caseID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening progress log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\t%s\n", time.Now().Format(time.RFC3339), event, stage, date)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing progress log: %w", err)
	}
	return nil
}

// Rename moves a case's log file to the new id. A missing file is not
// an error; there is simply nothing to carry over.
func (p *progressLog) Rename(oldID, newID string) error {
	oldPath := p.Path(oldID)
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(oldPath, p.Path(newID)); err != nil {
		return fmt.Errorf("renaming progress log: %w", err)
	}
	return nil
}
