package coordinator

import (
	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/internal/foldertree"
	"github.com/lexhaus/casekeeper/internal/metastore"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// Read-side passthroughs. Queries never mutate any store.

// CaseByID returns the first record carrying the identifier across
// case-type partitions, or nil. Identifier uniqueness is only per
// partition, so this is a best-effort lookup; exact callers use
// CaseByIDAndType.
func (c *Coordinator) CaseByID(caseID string) *types.CaseRecord {
	return c.store.FindByID(caseID)
}

// CaseByIDAndType returns the record matching both identifier and case
// type, or nil.
func (c *Coordinator) CaseByIDAndType(caseID, caseType string) *types.CaseRecord {
	return c.store.FindByIDAndType(caseID, caseType)
}

// Search returns records matching the keyword over client, case number
// and case reason.
func (c *Coordinator) Search(keyword string) []*types.CaseRecord {
	return c.store.Search(keyword)
}

// Cases returns every record.
func (c *Coordinator) Cases() []*types.CaseRecord {
	return c.store.All()
}

// CasesByType returns every record of one case type.
func (c *Coordinator) CasesByType(caseType string) []*types.CaseRecord {
	return c.store.ByType(caseType)
}

// CasesByProgress returns every record at one progress stage.
func (c *Coordinator) CasesByProgress(progress string) []*types.CaseRecord {
	return c.store.ByProgress(progress)
}

// Statistics returns aggregate counts over the stored records.
func (c *Coordinator) Statistics() metastore.Statistics {
	return c.store.Statistics()
}

// FolderPath returns the computed case directory and whether it exists
// on disk.
func (c *Coordinator) FolderPath(caseID, caseType string) (string, bool, error) {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return "", false, err
	}
	path := c.folders.paths.CasePath(rec)
	return path, dirExists(path), nil
}

// StageFolderPath returns the computed stage directory and whether it
// exists on disk.
func (c *Coordinator) StageFolderPath(caseID, caseType, stage string) (string, bool, error) {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return "", false, err
	}
	if !rec.HasStage(stage) {
		return "", false, types.ErrStageNotFound
	}
	path := c.folders.paths.StagePath(rec, stage)
	return path, dirExists(path), nil
}

// FolderInfo returns a diagnostic snapshot of the case directory. With
// a backend lacking the inspection capability only existence is
// reported.
func (c *Coordinator) FolderInfo(caseID, caseType string) (foldertree.Info, error) {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return foldertree.Info{}, err
	}
	if c.folders.inspector != nil {
		return c.folders.inspector.Info(rec), nil
	}
	path := c.folders.paths.CasePath(rec)
	return foldertree.Info{Path: path, Exists: dirExists(path)}, nil
}

// ExportCases writes the full record set through the tabular exporter.
func (c *Coordinator) ExportCases(path string) types.Report {
	if c.exporter == nil {
		return types.Fail(types.StepExports, "no exporter configured")
	}
	if err := c.exporter.Export(path, c.store.All()); err != nil {
		return types.Fail(types.StepExports, err.Error())
	}
	var report types.Report
	report.OK = true
	report.Add(types.StepExports, true, "")
	return report
}

// ImportCases reads records from a tabular file and merges them into
// the metadata store under the given policy: skip keeps existing
// records, replace overwrites them, update fills their empty fields.
// New records get folder structures best-effort. Row-level decode
// failures and per-record store failures are counted, not fatal.
func (c *Coordinator) ImportCases(path string, policy types.MergePolicy) (types.Report, types.ImportReport) {
	var report types.Report
	if c.exporter == nil {
		return types.Fail(types.StepExports, "no exporter configured"), types.ImportReport{}
	}
	records, fileReport, err := c.exporter.Import(path, policy)
	if err != nil {
		return types.Fail(types.StepExports, err.Error()), fileReport
	}
	op := c.opLogger("import-cases", "", "")

	merged := types.ImportReport{Failed: fileReport.Failed}
	folderOK := true
	for _, rec := range records {
		existing := c.store.FindByIDAndType(rec.CaseID, rec.CaseType)
		if existing == nil {
			if err := c.store.Add(rec); err != nil {
				op.Warn("import insert failed", zap.String("case_id", rec.CaseID), zap.Error(err))
				merged.Failed++
				continue
			}
			merged.Imported++
			if c.folders.creator != nil {
				if err := c.folders.creator.CreateStructure(rec); err != nil {
					op.Warn("import folder creation failed",
						zap.String("case_id", rec.CaseID), zap.Error(err))
					folderOK = false
				}
			}
			continue
		}
		switch policy {
		case types.MergeReplace:
			rec.CreatedDate = existing.CreatedDate
			if err := c.store.Update(rec); err != nil {
				merged.Failed++
				continue
			}
			merged.Replaced++
		case types.MergeUpdate:
			updated := existing.Clone()
			fillRecord(updated, rec)
			if err := c.store.Update(updated); err != nil {
				merged.Failed++
				continue
			}
			merged.Updated++
		default:
			merged.Skipped++
		}
	}

	report.OK = true
	report.Add(types.StepMetadata, true, "import merged")
	report.Add(types.StepFolder, folderOK, "")
	return report, merged
}

// fillRecord copies descriptive fields from src into dst where dst is
// empty, the update-merge behavior.
func fillRecord(dst, src *types.CaseRecord) {
	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
		}
	}
	fill(&dst.Lawyer, src.Lawyer)
	fill(&dst.LegalAffairs, src.LegalAffairs)
	fill(&dst.Court, src.Court)
	fill(&dst.Division, src.Division)
	fill(&dst.CaseReason, src.CaseReason)
	fill(&dst.CaseNumber, src.CaseNumber)
	fill(&dst.OpposingParty, src.OpposingParty)
}
