package logic

import (
	"testing"
	"time"

	"github.com/garasindo/wms/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats_ProgressPercentage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Status:               model.ProjectStatusInProgress,
		TargetCompletionDate: now.AddDate(0, 0, 7),
	}

	tasks := make([]model.Task, 10)
	for i := range tasks {
		tasks[i] = model.Task{ID: int64(i + 1), Status: model.TaskStatusNotStarted}
	}
	for i := 0; i < 4; i++ {
		tasks[i].Status = model.TaskStatusCompleted
	}
	tasks[4].Status = model.TaskStatusInProgress
	tasks[5].IsCritical = true

	stats := ComputeStats(project, tasks, now)

	assert.Equal(t, 10, stats.TotalTasks)
	assert.Equal(t, 4, stats.CompletedTasks)
	assert.Equal(t, 1, stats.InProgressTasks)
	assert.Equal(t, 1, stats.CriticalTasks)
	assert.Equal(t, 40, stats.ProgressPercentage)
	assert.False(t, stats.IsOverdue)
	assert.Equal(t, 7, stats.DaysRemaining)
}

func TestComputeStats_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Status:               model.ProjectStatusInProgress,
		TargetCompletionDate: now.AddDate(0, 0, -3),
	}

	stats := ComputeStats(project, nil, now)

	assert.True(t, stats.IsOverdue)
	assert.Equal(t, -3, stats.DaysRemaining)
	assert.Equal(t, 0, stats.ProgressPercentage, "no tasks means zero progress")
}

func TestComputeStats_OverdueLessThanADay(t *testing.T) {
	// Target was midnight today; twelve hours later the project is
	// already overdue and days remaining must be negative.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Status:               model.ProjectStatusInProgress,
		TargetCompletionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	stats := ComputeStats(project, nil, now)

	assert.True(t, stats.IsOverdue)
	assert.Equal(t, -1, stats.DaysRemaining)
}

func TestComputeStats_TerminalStatusNeverOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Status:               model.ProjectStatusCompleted,
		TargetCompletionDate: now.AddDate(0, 0, -3),
	}

	stats := ComputeStats(project, nil, now)

	assert.False(t, stats.IsOverdue)
}

func TestComputeStats_Rounding(t *testing.T) {
	now := time.Now()
	project := &model.Project{TargetCompletionDate: now.AddDate(0, 0, 1)}

	tasks := []model.Task{
		{Status: model.TaskStatusCompleted},
		{Status: model.TaskStatusNotStarted},
		{Status: model.TaskStatusNotStarted},
	}

	stats := ComputeStats(project, tasks, now)

	// 1/3 rounds to 33.
	assert.Equal(t, 33, stats.ProgressPercentage)
}
