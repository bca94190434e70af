package stage

import (
	"testing"

	"github.com/garasindo/wms/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDerive_RepairInProgress(t *testing.T) {
	// bongkar done, repair running, everything after untouched.
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryBongkarBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
		{ID: 2, Category: model.CategoryRepairBody, Status: model.TaskStatusInProgress, ProgressPercentage: 40},
		{ID: 3, Category: model.CategoryPengampelasan, Status: model.TaskStatusNotStarted},
		{ID: 4, Category: model.CategoryPoxy, Status: model.TaskStatusNotStarted},
		{ID: 5, Category: model.CategoryClearCoat, Status: model.TaskStatusNotStarted},
		{ID: 6, Category: model.CategoryPemasanganBody, Status: model.TaskStatusNotStarted},
	}

	steps, current := Derive(tasks)

	assert.Equal(t, 2, current, "current step should resolve to repair-body")
	assert.Len(t, steps, StepCount)
	assert.Equal(t, StepCompleted, steps[0].Status)
	assert.Equal(t, StepActive, steps[1].Status)
	for i := 2; i < StepCount; i++ {
		assert.Equal(t, StepPending, steps[i].Status, "stage %d should be pending", i+1)
	}
	assert.Equal(t, 40, steps[1].Progress)
}

func TestDerive_AllCompleted(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryBongkarBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
		{ID: 2, Category: model.CategoryRepairBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
		{ID: 3, Category: model.CategoryPemasanganBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
	}

	steps, current := Derive(tasks)

	assert.Equal(t, StepCount, current)
	for _, s := range steps {
		assert.Equal(t, StepCompleted, s.Status, "stage %d", s.Step)
	}
}

func TestDerive_EmptyStagesFollowCurrentStep(t *testing.T) {
	// Only stages 1 and 4 own tasks; stage 1 done, stage 4 running.
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryBongkarBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
		{ID: 2, Category: model.CategoryPoxy, Status: model.TaskStatusInProgress, ProgressPercentage: 20},
	}

	steps, current := Derive(tasks)

	assert.Equal(t, 4, current)
	assert.Equal(t, StepCompleted, steps[0].Status)
	assert.Equal(t, StepCompleted, steps[1].Status, "empty stage before current step")
	assert.Equal(t, StepCompleted, steps[2].Status, "empty stage before current step")
	assert.Equal(t, StepActive, steps[3].Status)
	assert.Equal(t, StepPending, steps[4].Status)
	assert.Equal(t, StepPending, steps[5].Status)
}

func TestDerive_UnmappedCategoriesExcluded(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryQualityCheck, Status: model.TaskStatusInProgress},
		{ID: 2, Category: model.CategoryOther, Status: model.TaskStatusCompleted},
	}

	_, current := Derive(tasks)

	// No task maps to any stage, the pipeline falls back to step 1.
	assert.Equal(t, 1, current)
}

func TestDerive_CancelledTasksIgnored(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryBongkarBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100},
		{ID: 2, Category: model.CategoryRepairBody, Status: model.TaskStatusCancelled},
	}

	_, current := Derive(tasks)

	// The cancelled repair task must not hold the pipeline at stage 2.
	assert.Equal(t, StepCount, current)
}

func TestDerive_Deterministic(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Category: model.CategoryBongkarBody, Status: model.TaskStatusCompleted, ProgressPercentage: 100, IsCritical: true},
		{ID: 2, Category: model.CategoryRepairBody, Status: model.TaskStatusInProgress, ProgressPercentage: 55},
		{ID: 3, Category: model.CategoryColorCoat, Status: model.TaskStatusNotStarted},
	}

	firstSteps, firstCurrent := Derive(tasks)
	secondSteps, secondCurrent := Derive(tasks)

	assert.Equal(t, firstCurrent, secondCurrent)
	if diff := cmp.Diff(firstSteps, secondSteps); diff != "" {
		t.Errorf("repeated derivation differs (-first +second):\n%s", diff)
	}
}

func TestMapCategory(t *testing.T) {
	ord, ok := MapCategory(model.CategoryBaseCoat)
	assert.True(t, ok)
	assert.Equal(t, 4, ord, "base_coat shares the poxy stage")

	_, ok = MapCategory(model.CategoryQualityCheck)
	assert.False(t, ok)
}
