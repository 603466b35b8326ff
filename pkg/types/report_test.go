package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStepsAndClean(t *testing.T) {
	var r Report
	r.OK = true
	r.Add(StepMetadata, true, "case added")
	r.Add(StepFolder, false, "permission denied")

	step, ok := r.Step(StepFolder)
	require.True(t, ok)
	assert.False(t, step.OK)

	_, ok = r.Step(StepExports)
	assert.False(t, ok)

	assert.True(t, r.OK, "mirror failure does not flip the overall flag")
	assert.False(t, r.Clean(), "mirror failure is visible to Clean")
}

func TestReportMessageEnumeratesSteps(t *testing.T) {
	var r Report
	r.OK = true
	r.Add(StepMetadata, true, "case deleted")
	r.Add(StepFolder, false, "still present")

	msg := r.Message()
	assert.Contains(t, msg, "metadata ok (case deleted)")
	assert.Contains(t, msg, "folder failed (still present)")
}

func TestFail(t *testing.T) {
	r := Fail(StepMetadata, "duplicate identifier")
	assert.False(t, r.OK)
	assert.False(t, r.Clean())
	assert.Contains(t, r.Message(), "duplicate identifier")
}

func TestMergePolicyValid(t *testing.T) {
	assert.True(t, MergeSkip.Valid())
	assert.True(t, MergeReplace.Valid())
	assert.True(t, MergeUpdate.Valid())
	assert.False(t, MergePolicy("merge").Valid())
	assert.False(t, MergePolicy("").Valid())
}
