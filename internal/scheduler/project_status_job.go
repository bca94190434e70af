package scheduler

import (
	"time"

	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/logger"
	"github.com/garasindo/wms/internal/logic"
	"github.com/garasindo/wms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ProjectStatusJob promotes project statuses and refreshes stored
// aggregates as a safety net behind the per-mutation refresh.
type ProjectStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

func NewProjectStatusJob(db *gorm.DB, cfg *config.Config) *ProjectStatusJob {
	return &ProjectStatusJob{db: db, config: cfg}
}

func (j *ProjectStatusJob) GetName() string {
	return "project_status_updater"
}

func (j *ProjectStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.StatusInterval) * time.Second)
}

// Execute walks the non-terminal projects, refreshes their rollups
// and applies status transitions.
func (j *ProjectStatusJob) Execute() {
	logger.Debug("Starting project status update")

	var projects []model.Project
	err := j.db.Preload("Tasks").Where("status IN ?", []model.ProjectStatus{
		model.ProjectStatusPending,
		model.ProjectStatusInProgress,
	}).Find(&projects).Error
	if err != nil {
		logger.Error("Failed to fetch projects: %v", err)
		return
	}

	now := time.Now()
	updatedCount := 0

	for i := range projects {
		project := &projects[i]
		stats := logic.ComputeStats(project, project.Tasks, now)

		updates := map[string]interface{}{
			"total_tasks":         stats.TotalTasks,
			"completed_tasks":     stats.CompletedTasks,
			"in_progress_tasks":   stats.InProgressTasks,
			"critical_tasks":      stats.CriticalTasks,
			"progress_percentage": stats.ProgressPercentage,
		}

		switch {
		case project.Status == model.ProjectStatusPending && stats.InProgressTasks > 0:
			updates["status"] = model.ProjectStatusInProgress
		case project.Status == model.ProjectStatusInProgress &&
			stats.TotalTasks > 0 && stats.CompletedTasks == stats.TotalTasks:
			updates["status"] = model.ProjectStatusCompleted
			updates["actual_completion_date"] = &now
		}

		if err := j.db.Model(project).Updates(updates).Error; err != nil {
			logger.Error("Failed to update project %d: %v", project.ID, err)
			continue
		}
		if newStatus, ok := updates["status"]; ok {
			logger.Info("Updated project %d status from %s to %s",
				project.ID, project.Status, newStatus)
			updatedCount++
		}
	}

	logger.Debug("Project status update completed. Promoted %d projects", updatedCount)
}
