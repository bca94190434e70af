package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task is a single schedule unit of a project. Duration and
// predecessors are the schedule inputs; ES/EF/LS/LF, float and the
// critical flag are recomputed for the whole project whenever the
// graph changes and are never user-editable.
type Task struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	ProjectID int64  `json:"project_id" gorm:"index;not null"`
	Code      string `json:"code"`
	Name      string `json:"name" gorm:"not null" binding:"required"`

	Category TaskCategory `json:"kategori" gorm:"default:'other'"`

	// Schedule inputs
	DurationDays   int                        `json:"duration_days" gorm:"not null" binding:"required,min=1"`
	PredecessorIDs datatypes.JSONSlice[int64] `json:"predecessor_ids" gorm:"type:jsonb"`

	// Schedule outputs (computed)
	EarlyStart  int  `json:"early_start" gorm:"default:0"`
	EarlyFinish int  `json:"early_finish" gorm:"default:0"`
	LateStart   int  `json:"late_start" gorm:"default:0"`
	LateFinish  int  `json:"late_finish" gorm:"default:0"`
	TotalFloat  int  `json:"total_float" gorm:"default:0"`
	IsCritical  bool `json:"is_critical" gorm:"default:false"`

	// Execution state
	Status             TaskStatus    `json:"status" gorm:"default:'not_started'"`
	ProgressPercentage int           `json:"progress_percentage" gorm:"default:0"`
	QualityStatus      QualityStatus `json:"quality_status" gorm:"default:'pending'"`
	Notes              string        `json:"notes" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Photos datatypes.JSONSlice[string] `json:"photos" gorm:"type:jsonb"`

	// Display order on the timeline, independent of schedule order
	UrutanTampil int `json:"urutan_tampil" gorm:"default:0"`
}

// TaskStatus execution state of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// QualityStatus inspection result of a task.
type QualityStatus string

const (
	QualityStatusPending QualityStatus = "pending"
	QualityStatusPassed  QualityStatus = "passed"
	QualityStatusFailed  QualityStatus = "failed"
	QualityStatusRework  QualityStatus = "rework"
)

// TaskCategory groups tasks for the customer-facing stage pipeline.
type TaskCategory string

const (
	CategoryBongkarBody    TaskCategory = "bongkar_body"
	CategoryRepairBody     TaskCategory = "repair_body"
	CategoryPengampelasan  TaskCategory = "pengampelasan"
	CategoryPoxy           TaskCategory = "poxy"
	CategoryBaseCoat       TaskCategory = "base_coat"
	CategoryColorCoat      TaskCategory = "color_coat"
	CategoryClearCoat      TaskCategory = "clear_coat"
	CategoryPemasanganBody TaskCategory = "pemasangan_body"
	CategoryQualityCheck   TaskCategory = "quality_check"
	CategoryOther          TaskCategory = "other"
)

// ValidCategory reports whether c is a known category. Unknown keys
// are rejected at the boundary instead of silently falling back.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case CategoryBongkarBody, CategoryRepairBody, CategoryPengampelasan,
		CategoryPoxy, CategoryBaseCoat, CategoryColorCoat, CategoryClearCoat,
		CategoryPemasanganBody, CategoryQualityCheck, CategoryOther:
		return true
	}
	return false
}

// CanStart reports whether the task may transition to in_progress:
// it must be not started and every predecessor completed.
func (t *Task) CanStart(all []Task) bool {
	if t.Status != TaskStatusNotStarted {
		return false
	}
	byID := make(map[int64]*Task, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	for _, p := range t.PredecessorIDs {
		pred, ok := byID[p]
		if !ok || pred.Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}
