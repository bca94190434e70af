package logic

import (
	"math"
	"time"

	"github.com/garasindo/wms/internal/model"
)

// ProjectStats is the task rollup for one project.
type ProjectStats struct {
	TotalTasks         int  `json:"total_tasks"`
	CompletedTasks     int  `json:"completed_tasks"`
	InProgressTasks    int  `json:"in_progress_tasks"`
	CriticalTasks      int  `json:"critical_tasks"`
	ProgressPercentage int  `json:"progress_percentage"`
	IsOverdue          bool `json:"is_overdue"`
	DaysRemaining      int  `json:"days_remaining"`
}

// ComputeStats derives the project rollup from its task set. Pure:
// callers persist the result; it must be re-run after every task
// status change, creation or deletion or the stored aggregates go
// stale.
func ComputeStats(p *model.Project, tasks []model.Task, now time.Time) ProjectStats {
	stats := ProjectStats{
		IsOverdue:     p.IsOverdue(now),
		DaysRemaining: p.DaysRemaining(now),
	}
	for _, t := range tasks {
		stats.TotalTasks++
		switch t.Status {
		case model.TaskStatusCompleted:
			stats.CompletedTasks++
		case model.TaskStatusInProgress:
			stats.InProgressTasks++
		}
		if t.IsCritical {
			stats.CriticalTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.ProgressPercentage = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}
	return stats
}
