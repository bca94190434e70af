package logic

import (
	"testing"

	"github.com/garasindo/wms/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseBulkAction(t *testing.T) {
	for _, name := range []string{"start", "complete", "delete"} {
		action, err := ParseBulkAction(name)
		assert.NoError(t, err)
		assert.Equal(t, BulkAction(name), action)
	}

	_, err := ParseBulkAction("archive")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "action", vErr.Field)
}

func TestValidateProgress(t *testing.T) {
	assert.NoError(t, validateProgress(model.TaskStatusInProgress, 40, 40))
	assert.NoError(t, validateProgress(model.TaskStatusInProgress, 40, 80))

	assert.Error(t, validateProgress(model.TaskStatusInProgress, 40, 30), "must not decrease")
	assert.Error(t, validateProgress(model.TaskStatusInProgress, 40, 101))
	assert.Error(t, validateProgress(model.TaskStatusInProgress, 40, -1))
	assert.Error(t, validateProgress(model.TaskStatusNotStarted, 0, 10), "only in_progress tasks accept updates")
	assert.Error(t, validateProgress(model.TaskStatusCompleted, 100, 100))
}

func TestTaskCanStart(t *testing.T) {
	all := []model.Task{
		{ID: 1, Status: model.TaskStatusCompleted},
		{ID: 2, Status: model.TaskStatusInProgress},
		{ID: 3, Status: model.TaskStatusNotStarted, PredecessorIDs: []int64{1}},
		{ID: 4, Status: model.TaskStatusNotStarted, PredecessorIDs: []int64{1, 2}},
		{ID: 5, Status: model.TaskStatusNotStarted},
	}

	assert.True(t, all[2].CanStart(all), "all predecessors completed")
	assert.False(t, all[3].CanStart(all), "predecessor 2 still running")
	assert.True(t, all[4].CanStart(all), "no predecessors")
	assert.False(t, all[0].CanStart(all), "already completed")
	assert.False(t, all[1].CanStart(all), "already started")
}

// The start guard is evaluated against the row as stored at transition
// time. Once a first start succeeds, the same row no longer passes the
// guard, so a second concurrent start serialized behind the project
// lock must fail.
func TestGuardStartRejectsAlreadyStarted(t *testing.T) {
	all := []model.Task{
		{ID: 1, Status: model.TaskStatusNotStarted},
	}
	assert.NoError(t, guardStart(&all[0], all))

	all[0].Status = model.TaskStatusInProgress
	err := guardStart(&all[0], all)
	var gErr *GuardError
	assert.ErrorAs(t, err, &gErr)
	assert.Equal(t, int64(1), gErr.TaskID)
}

func TestGuardComplete(t *testing.T) {
	task := &model.Task{ID: 7, Status: model.TaskStatusInProgress}
	assert.NoError(t, guardComplete(task))

	task.Status = model.TaskStatusCompleted
	err := guardComplete(task)
	var gErr *GuardError
	assert.ErrorAs(t, err, &gErr)
	assert.Equal(t, int64(7), gErr.TaskID)

	task.Status = model.TaskStatusNotStarted
	assert.Error(t, guardComplete(task))
}

func TestQualityUpdatesReworkReopensTask(t *testing.T) {
	task := &model.Task{
		ID:                 3,
		Status:             model.TaskStatusCompleted,
		ProgressPercentage: 100,
	}

	updates := qualityUpdates(task, model.QualityStatusRework, "ulang pengecatan")
	assert.Equal(t, model.QualityStatusRework, updates["quality_status"])
	assert.Equal(t, "ulang pengecatan", updates["notes"])
	assert.Equal(t, model.TaskStatusInProgress, updates["status"])
	assert.Equal(t, 0, updates["progress_percentage"], "reset so rework progress can be recorded")
	assert.Nil(t, updates["completed_at"])

	// The reopened task accepts fresh progress from zero.
	assert.NoError(t, validateProgress(model.TaskStatusInProgress, 0, 30))
}

func TestQualityUpdatesPassedLeavesStatusAlone(t *testing.T) {
	task := &model.Task{ID: 4, Status: model.TaskStatusCompleted, ProgressPercentage: 100}

	updates := qualityUpdates(task, model.QualityStatusPassed, "")
	assert.Equal(t, model.QualityStatusPassed, updates["quality_status"])
	assert.NotContains(t, updates, "status")
	assert.NotContains(t, updates, "progress_percentage")
	assert.NotContains(t, updates, "notes")
}

func TestQualityUpdatesFailedOnRunningTask(t *testing.T) {
	task := &model.Task{ID: 5, Status: model.TaskStatusInProgress, ProgressPercentage: 60}

	updates := qualityUpdates(task, model.QualityStatusFailed, "")
	assert.Equal(t, model.QualityStatusFailed, updates["quality_status"])
	assert.NotContains(t, updates, "status", "only completed tasks are reopened")
	assert.NotContains(t, updates, "progress_percentage")
}
