package model

import (
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is one vehicle service order in the workshop, owning a task schedule.
type Project struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Owner and vehicle
	OwnerName    string `json:"owner_name" gorm:"not null" binding:"required"`
	OwnerPhone   string `json:"owner_phone"`
	PlatNomor    string `json:"plat_nomor" gorm:"uniqueIndex;not null" binding:"required"`
	VehicleBrand string `json:"vehicle_brand"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  int    `json:"vehicle_year"`
	VehicleColor string `json:"vehicle_color"`

	// Service order
	ServiceType   string `json:"service_type"`
	Description   string `json:"description" gorm:"type:text"`
	EstimatedCost int64  `json:"estimated_cost"`
	ActualCost    int64  `json:"actual_cost"`

	// Timeline
	EntryDate            time.Time  `json:"entry_date"`
	TargetCompletionDate time.Time  `json:"target_completion_date"`
	ActualCompletionDate *time.Time `json:"actual_completion_date"`

	Status ProjectStatus `json:"status" gorm:"default:'pending'"`

	// Intake/delivery photos
	FotoBefore datatypes.JSONSlice[string] `json:"foto_before" gorm:"type:jsonb"`
	FotoAfter  datatypes.JSONSlice[string] `json:"foto_after" gorm:"type:jsonb"`

	// Stored task rollups, refreshed on every task mutation
	TotalTasks         int `json:"total_tasks" gorm:"default:0"`
	CompletedTasks     int `json:"completed_tasks" gorm:"default:0"`
	InProgressTasks    int `json:"in_progress_tasks" gorm:"default:0"`
	CriticalTasks      int `json:"critical_tasks" gorm:"default:0"`
	ProgressPercentage int `json:"progress_percentage" gorm:"default:0"`
	ScheduleDuration   int `json:"schedule_duration" gorm:"default:0"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectStatus lifecycle state of a service order.
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// IsOverdue reports whether the project has passed its target date
// without reaching a terminal status.
func (p *Project) IsOverdue(now time.Time) bool {
	if p.Status == ProjectStatusCompleted || p.Status == ProjectStatusCancelled {
		return false
	}
	return now.After(p.TargetCompletionDate)
}

// DaysRemaining returns whole days until the target completion date,
// negative once the target has passed. The division floors rather
// than truncates so a target missed by less than a day already
// reports -1.
func (p *Project) DaysRemaining(now time.Time) int {
	return int(math.Floor(p.TargetCompletionDate.Sub(now).Hours() / 24))
}
