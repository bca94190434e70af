// Package scheduler runs the background jobs: project status
// promotion and the fleet-wide schedule recalculation.
package scheduler

import (
	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job is one registered background job.
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager owns the gocron scheduler and job registration.
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	config    *config.Config
}

// NewManager creates a manager with an empty scheduler.
func NewManager(db *gorm.DB, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		config:    cfg,
	}
}

// Start registers all jobs and starts the scheduler.
func Start(db *gorm.DB, cfg *config.Config) *Manager {
	manager := NewManager(db, cfg)
	manager.RegisterJobs()
	manager.scheduler.Start()
	logger.Info("Scheduler started successfully")
	return manager
}

// RegisterJobs registers every background job.
func (m *Manager) RegisterJobs() {
	m.register(NewProjectStatusJob(m.db, m.config))
	m.register(NewCPMRecalcJob(m.db, m.config))
}

func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop shuts the scheduler down.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Scheduler stopped")
}
