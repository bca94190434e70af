package scheduler

import (
	"sync"
	"time"

	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/logger"
	"github.com/garasindo/wms/internal/logic"
	"github.com/garasindo/wms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// CPMRecalcJob recalculates the schedule of every non-terminal
// project. Projects fan out onto a bounded pool; the per-project
// locks inside the task logic keep a project's recalculation
// serialized against API-triggered ones.
type CPMRecalcJob struct {
	db        *gorm.DB
	config    *config.Config
	taskLogic *logic.TaskLogic
}

func NewCPMRecalcJob(db *gorm.DB, cfg *config.Config) *CPMRecalcJob {
	return &CPMRecalcJob{
		db:        db,
		config:    cfg,
		taskLogic: logic.NewTaskLogic(db),
	}
}

func (j *CPMRecalcJob) GetName() string {
	return "cpm_recalculator"
}

func (j *CPMRecalcJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.RecalcInterval) * time.Second)
}

// Execute recalculates all active projects.
func (j *CPMRecalcJob) Execute() {
	var ids []int64
	err := j.db.Model(&model.Project{}).
		Where("status IN ?", []model.ProjectStatus{
			model.ProjectStatusPending,
			model.ProjectStatusInProgress,
		}).
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to list projects for recalculation: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	workers := j.config.Scheduler.RecalcWorkers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create recalculation pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := j.taskLogic.Recalculate(id); err != nil {
				logger.Error("Failed to recalculate project %d: %v", id, err)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit recalculation for project %d: %v", id, err)
		}
	}
	wg.Wait()

	logger.Debug("Fleet recalculation completed for %d projects", len(ids))
}
