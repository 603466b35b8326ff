package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaseRecordDefaults(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")

	assert.Equal(t, ProgressPending, rec.Progress)
	assert.Empty(t, rec.ProgressDate)
	assert.NotNil(t, rec.ProgressStages)
	assert.Empty(t, rec.ProgressStages)
	assert.WithinDuration(t, time.Now(), rec.CreatedDate, time.Second)
	assert.Equal(t, rec.CreatedDate, rec.UpdatedDate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CaseRecord)
		wantErr error
	}{
		{
			name:   "fresh record is valid",
			mutate: func(r *CaseRecord) {},
		},
		{
			name:    "missing client",
			mutate:  func(r *CaseRecord) { r.Client = "" },
			wantErr: ErrMissingField,
		},
		{
			name:    "missing case type",
			mutate:  func(r *CaseRecord) { r.CaseType = "" },
			wantErr: ErrMissingField,
		},
		{
			name: "note for unrecorded stage",
			mutate: func(r *CaseRecord) {
				r.ProgressNotes["filed"] = "never recorded"
			},
			wantErr: ErrStageNotFound,
		},
		{
			name: "time for unrecorded stage",
			mutate: func(r *CaseRecord) {
				r.ProgressTimes["filed"] = "09:00"
			},
			wantErr: ErrStageNotFound,
		},
		{
			name: "progress outside recorded stages",
			mutate: func(r *CaseRecord) {
				r.ProgressStages["filed"] = "2024-01-01"
				r.Progress = "hearing"
			},
			wantErr: ErrInvalidProgress,
		},
		{
			name: "progress among recorded stages",
			mutate: func(r *CaseRecord) {
				r.ProgressStages["filed"] = "2024-01-01"
				r.Progress = "filed"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewCaseRecord("113001", "civil", "Acme Corp")
			tt.mutate(rec)
			err := rec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProgress(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")

	rec.UpdateProgress("filed", "2024-03-01", "initial filing", "10:00")
	assert.Equal(t, "filed", rec.Progress)
	assert.Equal(t, "2024-03-01", rec.ProgressDate)
	assert.Equal(t, "2024-03-01", rec.ProgressStages["filed"])
	assert.Equal(t, "initial filing", rec.StageNote("filed"))
	assert.Equal(t, "10:00", rec.StageTime("filed"))
	assert.NoError(t, rec.Validate())

	// Re-recording with empty note and time clears both entries.
	rec.UpdateProgress("filed", "2024-03-02", "", "")
	assert.Equal(t, "2024-03-02", rec.ProgressStages["filed"])
	assert.Empty(t, rec.StageNote("filed"))
	assert.Empty(t, rec.StageTime("filed"))
}

func TestUpdateProgressDefaultsDateToToday(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("filed", "", "", "")
	assert.Equal(t, time.Now().Format(DateLayout), rec.ProgressDate)
}

func TestUpdateProgressRepairsNilMaps(t *testing.T) {
	// Records decoded from older payloads may carry nil maps.
	rec := &CaseRecord{CaseID: "113001", CaseType: "civil", Client: "Acme Corp"}
	rec.UpdateProgress("filed", "2024-03-01", "note", "")
	assert.Equal(t, "filed", rec.Progress)
	assert.Equal(t, "note", rec.StageNote("filed"))
}

func TestAddStageKeepsCurrentProgress(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("filed", "2024-03-01", "", "")

	rec.AddStage("hearing", "2024-05-01", "first hearing", "")
	assert.Equal(t, "filed", rec.Progress, "recorded stage stays current")
	assert.Equal(t, "2024-05-01", rec.ProgressStages["hearing"])
	assert.NoError(t, rec.Validate())
}

func TestAddStageAdoptsProgressOnFreshRecord(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")

	// "pending" is a placeholder, not a recorded stage, so the first
	// added stage must become current for the invariant to hold.
	rec.AddStage("filed", "2024-03-01", "", "")
	assert.Equal(t, "filed", rec.Progress)
	assert.Equal(t, "2024-03-01", rec.ProgressDate)
	assert.NoError(t, rec.Validate())
}

func TestUpdateStageDate(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("filed", "2024-03-01", "", "")
	rec.AddStage("hearing", "2024-05-01", "", "")

	assert.False(t, rec.UpdateStageDate("unknown", "2024-06-01"))

	// Non-current stage: progress date untouched.
	require.True(t, rec.UpdateStageDate("hearing", "2024-06-01"))
	assert.Equal(t, "2024-03-01", rec.ProgressDate)

	// Current stage: progress date follows.
	require.True(t, rec.UpdateStageDate("filed", "2024-03-15"))
	assert.Equal(t, "2024-03-15", rec.ProgressDate)
}

func TestUpdateStageNoteAndTime(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("filed", "2024-03-01", "", "")

	assert.False(t, rec.UpdateStageNote("unknown", "x"))
	assert.False(t, rec.UpdateStageTime("unknown", "x"))

	require.True(t, rec.UpdateStageNote("filed", "a note"))
	require.True(t, rec.UpdateStageTime("filed", "14:30"))
	assert.Equal(t, "a note", rec.StageNote("filed"))
	assert.Equal(t, "14:30", rec.StageTime("filed"))

	// Empty values clear the entries.
	require.True(t, rec.UpdateStageNote("filed", ""))
	require.True(t, rec.UpdateStageTime("filed", ""))
	assert.Empty(t, rec.StageNote("filed"))
	assert.Empty(t, rec.StageTime("filed"))
	assert.NotContains(t, rec.ProgressNotes, "filed")
	assert.NotContains(t, rec.ProgressTimes, "filed")
}

func TestRemoveStage(t *testing.T) {
	t.Run("unknown stage", func(t *testing.T) {
		rec := NewCaseRecord("113001", "civil", "Acme Corp")
		assert.False(t, rec.RemoveStage("filed"))
	})

	t.Run("non-current stage leaves progress alone", func(t *testing.T) {
		rec := NewCaseRecord("113001", "civil", "Acme Corp")
		rec.UpdateProgress("filed", "2024-03-01", "", "")
		rec.UpdateProgress("hearing", "2024-05-01", "", "")

		require.True(t, rec.RemoveStage("filed"))
		assert.Equal(t, "hearing", rec.Progress)
		assert.NoError(t, rec.Validate())
	})

	t.Run("current stage reassigns to latest remaining date", func(t *testing.T) {
		rec := NewCaseRecord("113001", "civil", "Acme Corp")
		rec.UpdateProgress("filed", "2024-03-01", "", "")
		rec.UpdateProgress("hearing", "2024-05-01", "", "")
		rec.UpdateProgress("verdict", "2024-07-01", "", "")

		require.True(t, rec.RemoveStage("verdict"))
		assert.Equal(t, "hearing", rec.Progress)
		assert.Equal(t, "2024-05-01", rec.ProgressDate)
	})

	t.Run("date tie breaks by larger stage name", func(t *testing.T) {
		rec := NewCaseRecord("113001", "civil", "Acme Corp")
		rec.UpdateProgress("appeal", "2024-05-01", "", "")
		rec.UpdateProgress("briefing", "2024-05-01", "", "")
		rec.UpdateProgress("verdict", "2024-07-01", "", "")

		require.True(t, rec.RemoveStage("verdict"))
		assert.Equal(t, "briefing", rec.Progress)
	})

	t.Run("removing the only stage clears progress", func(t *testing.T) {
		rec := NewCaseRecord("113001", "civil", "Acme Corp")
		rec.UpdateProgress("filed", "2024-03-01", "a note", "09:00")

		require.True(t, rec.RemoveStage("filed"))
		assert.Empty(t, rec.Progress)
		assert.Empty(t, rec.ProgressDate)
		assert.Empty(t, rec.ProgressStages)
		assert.Empty(t, rec.ProgressNotes)
		assert.Empty(t, rec.ProgressTimes)
		assert.NoError(t, rec.Validate())
	})
}

func TestOrderedStages(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("hearing", "2024-05-01", "", "")
	rec.UpdateProgress("filed", "2024-03-01", "", "")
	rec.ProgressStages["undated"] = ""
	rec.Progress = "filed"

	got := rec.OrderedStages()
	require.Len(t, got, 3)
	assert.Equal(t, "filed", got[0].Stage)
	assert.Equal(t, "hearing", got[1].Stage)
	assert.Equal(t, "undated", got[2].Stage, "stages without a date sort last")
}

func TestClone(t *testing.T) {
	rec := NewCaseRecord("113001", "civil", "Acme Corp")
	rec.UpdateProgress("filed", "2024-03-01", "note", "10:00")

	cp := rec.Clone()
	cp.UpdateProgress("hearing", "2024-05-01", "", "")
	cp.ProgressNotes["filed"] = "changed"

	assert.Equal(t, "filed", rec.Progress)
	assert.Equal(t, "note", rec.StageNote("filed"))
	assert.False(t, rec.HasStage("hearing"))
}
