package coordinator

import (
	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/pkg/types"
)

// Stage mutations operate on a clone of the stored record; the store is
// only updated once the clone mutated cleanly, and the store itself
// rolls the record back when the save fails. A stage edit is therefore
// never acknowledged before it is durable.

// AddStage records a new progress stage and makes it the case's current
// progress. The stage's folder and the progress-log entry are mirrors:
// their failures are reported without blocking the metadata write.
func (c *Coordinator) AddStage(caseID, caseType, stage, date, note, timeOfDay string) types.Report {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return types.Fail(types.StepMetadata, err.Error())
	}
	op := c.opLogger("add-stage", rec.CaseID, rec.CaseType)

	clone := rec.Clone()
	clone.UpdateProgress(stage, date, note, timeOfDay)

	var report types.Report
	if err := c.store.Update(clone); err != nil {
		op.Warn("stage add not committed", zap.Error(err))
		report.Add(types.StepMetadata, false, err.Error())
		return report
	}
	report.OK = true
	report.Add(types.StepMetadata, true, "stage recorded")

	report.Add(c.stageFolderStep(clone, stage, op))
	report.Add(c.progressLogStep(clone.CaseID, "add", stage, clone.ProgressStages[stage], op))
	return report
}

// UpdateStage edits the date, note or time of an existing stage. Empty
// date keeps the recorded one; empty note or time clears the entry.
func (c *Coordinator) UpdateStage(caseID, caseType, stage, date, note, timeOfDay string) types.Report {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return types.Fail(types.StepMetadata, err.Error())
	}
	if !rec.HasStage(stage) {
		return types.Fail(types.StepMetadata, types.ErrStageNotFound.Error())
	}
	op := c.opLogger("update-stage", rec.CaseID, rec.CaseType)

	clone := rec.Clone()
	if date != "" {
		clone.UpdateStageDate(stage, date)
	}
	clone.UpdateStageNote(stage, note)
	clone.UpdateStageTime(stage, timeOfDay)

	var report types.Report
	if err := c.store.Update(clone); err != nil {
		op.Warn("stage update not committed", zap.Error(err))
		report.Add(types.StepMetadata, false, err.Error())
		return report
	}
	report.OK = true
	report.Add(types.StepMetadata, true, "stage updated")
	report.Add(c.progressLogStep(clone.CaseID, "update", stage, clone.ProgressStages[stage], op))
	return report
}

// RemoveStage deletes a stage from the progress history. When the
// removed stage was current, the record reassigns its progress to the
// latest remaining stage. The stage's folder is left in place: files
// under it may be the only copy of paperwork, so cleanup stays manual.
func (c *Coordinator) RemoveStage(caseID, caseType, stage string) types.Report {
	rec, err := c.resolve(caseID, caseType)
	if err != nil {
		return types.Fail(types.StepMetadata, err.Error())
	}
	op := c.opLogger("remove-stage", rec.CaseID, rec.CaseType)

	clone := rec.Clone()
	if !clone.RemoveStage(stage) {
		return types.Fail(types.StepMetadata, types.ErrStageNotFound.Error())
	}

	var report types.Report
	if err := c.store.Update(clone); err != nil {
		op.Warn("stage removal not committed", zap.Error(err))
		report.Add(types.StepMetadata, false, err.Error())
		return report
	}
	report.OK = true
	report.Add(types.StepMetadata, true, "stage removed")
	report.Add(c.progressLogStep(clone.CaseID, "remove", stage, "", op))
	return report
}

func (c *Coordinator) stageFolderStep(rec *types.CaseRecord, stage string, op *zap.Logger) (string, bool, string) {
	if c.folders.creator == nil {
		return types.StepFolder, false, "folder backend cannot create structures"
	}
	if err := c.folders.creator.CreateStageDir(rec, stage); err != nil {
		op.Warn("stage folder creation failed", zap.Error(err))
		return types.StepFolder, false, err.Error()
	}
	return types.StepFolder, true, c.folders.paths.StagePath(rec, stage)
}

func (c *Coordinator) progressLogStep(caseID, event, stage, date string, op *zap.Logger) (string, bool, string) {
	if err := c.progress.Append(caseID, event, stage, date); err != nil {
		op.Warn("progress log append failed", zap.Error(err))
		return types.StepProgressLog, false, err.Error()
	}
	return types.StepProgressLog, true, ""
}
