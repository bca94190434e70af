package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/garasindo/wms/internal/cpm"
	"github.com/garasindo/wms/internal/logger"
	"github.com/garasindo/wms/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BulkAction is a tagged bulk operation over a set of task ids.
// Parsing up front keeps invalid action/payload combinations out of
// the workflow code.
type BulkAction string

const (
	BulkStart    BulkAction = "start"
	BulkComplete BulkAction = "complete"
	BulkDelete   BulkAction = "delete"
)

// ParseBulkAction validates an action name from the request.
func ParseBulkAction(s string) (BulkAction, error) {
	switch BulkAction(s) {
	case BulkStart, BulkComplete, BulkDelete:
		return BulkAction(s), nil
	}
	return "", &ValidationError{Field: "action", Message: fmt.Sprintf("unknown bulk action %q", s)}
}

// validateProgress enforces the progress invariants: only in_progress
// tasks accept updates, the percentage stays in 0..100 and never
// decreases.
func validateProgress(status model.TaskStatus, current, next int) error {
	if status != model.TaskStatusInProgress {
		return &ValidationError{Field: "progress_percentage", Message: "task is not in progress"}
	}
	if next < 0 || next > 100 {
		return &ValidationError{Field: "progress_percentage", Message: "must be between 0 and 100"}
	}
	if next < current {
		return &ValidationError{Field: "progress_percentage", Message: "must not decrease"}
	}
	return nil
}

// guardStart checks the start transition. The caller must pass the
// task row as currently stored, read under the project lock.
func guardStart(task *model.Task, all []model.Task) error {
	if !task.CanStart(all) {
		return &GuardError{TaskID: task.ID, Reason: "cannot start: task already started or predecessors incomplete"}
	}
	return nil
}

// guardComplete checks the complete transition against the current row.
func guardComplete(task *model.Task) error {
	if task.Status != model.TaskStatusInProgress {
		return &GuardError{TaskID: task.ID, Reason: "cannot complete: task is not in progress"}
	}
	return nil
}

// qualityUpdates builds the column updates for an inspection verdict.
// A failed or rework verdict on a completed task reopens it and
// resets progress to zero so the rework can be tracked without
// tripping the must-not-decrease rule.
func qualityUpdates(task *model.Task, status model.QualityStatus, note string) map[string]interface{} {
	updates := map[string]interface{}{"quality_status": status}
	if note != "" {
		updates["notes"] = note
	}
	if status == model.QualityStatusFailed || status == model.QualityStatusRework {
		if task.Status == model.TaskStatusCompleted {
			updates["status"] = model.TaskStatusInProgress
			updates["progress_percentage"] = 0
			updates["completed_at"] = nil
		}
	}
	return updates
}

// TaskLogic owns task CRUD, workflow transitions and schedule
// recalculation.
type TaskLogic struct {
	db    *gorm.DB
	locks *projectLocks
}

func NewTaskLogic(db *gorm.DB) *TaskLogic {
	return &TaskLogic{db: db, locks: sharedLocks}
}

// CreateTask adds a task to a project and recalculates the schedule.
func (l *TaskLogic) CreateTask(projectID int64, task *model.Task) error {
	if !model.ValidCategory(task.Category) {
		return &ValidationError{Field: "kategori", Message: fmt.Sprintf("unknown category %q", task.Category)}
	}
	if task.DurationDays <= 0 {
		return &ValidationError{Field: "duration_days", Message: "must be at least 1"}
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		task.ProjectID = projectID
		task.Status = model.TaskStatusNotStarted
		task.ProgressPercentage = 0
		task.QualityStatus = model.QualityStatusPending
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if task.Code == "" {
			task.Code = fmt.Sprintf("TSK-%d-%d", projectID, task.ID)
			if err := tx.Model(task).Update("code", task.Code).Error; err != nil {
				return err
			}
		}

		return l.recalculateLocked(tx, projectID)
	})
}

// GetTasks lists a project's tasks in display order.
func (l *TaskLogic) GetTasks(projectID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := l.db.Where("project_id = ?", projectID).
		Order("urutan_tampil asc, id asc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// TaskUpdate carries the editable task fields; schedule outputs are
// never accepted from a request.
type TaskUpdate struct {
	Name           *string             `json:"name"`
	Category       *model.TaskCategory `json:"kategori"`
	DurationDays   *int                `json:"duration_days"`
	PredecessorIDs *[]int64            `json:"predecessor_ids"`
	UrutanTampil   *int                `json:"urutan_tampil"`
	Notes          *string             `json:"notes"`
}

// UpdateTask edits task fields and recalculates the schedule when a
// duration or the dependency graph changed.
func (l *TaskLogic) UpdateTask(taskID int64, upd TaskUpdate) error {
	if upd.Category != nil && !model.ValidCategory(*upd.Category) {
		return &ValidationError{Field: "kategori", Message: fmt.Sprintf("unknown category %q", *upd.Category)}
	}
	if upd.DurationDays != nil && *upd.DurationDays <= 0 {
		return &ValidationError{Field: "duration_days", Message: "must be at least 1"}
	}

	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		scheduleChanged := false
		if upd.Name != nil {
			updates["name"] = *upd.Name
		}
		if upd.Category != nil {
			updates["category"] = *upd.Category
		}
		if upd.Notes != nil {
			updates["notes"] = *upd.Notes
		}
		if upd.UrutanTampil != nil {
			updates["urutan_tampil"] = *upd.UrutanTampil
		}
		if upd.DurationDays != nil && *upd.DurationDays != task.DurationDays {
			updates["duration_days"] = *upd.DurationDays
			scheduleChanged = true
		}
		if upd.PredecessorIDs != nil {
			updates["predecessor_ids"] = datatypes.NewJSONSlice(*upd.PredecessorIDs)
			scheduleChanged = true
		}
		if len(updates) == 0 {
			return &ValidationError{Message: "no fields to update"}
		}

		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return err
		}
		if scheduleChanged {
			return l.recalculateLocked(tx, task.ProjectID)
		}
		return l.refreshAggregates(tx, task.ProjectID)
	})
}

// DeleteTask removes a task and recalculates the schedule. Tasks that
// appear as predecessors elsewhere cannot be deleted.
func (l *TaskLogic) DeleteTask(taskID int64) error {
	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if err := l.deleteTaskLocked(tx, task); err != nil {
			return err
		}
		return l.recalculateLocked(tx, task.ProjectID)
	})
}

func (l *TaskLogic) deleteTaskLocked(tx *gorm.DB, task *model.Task) error {
	var siblings []model.Task
	if err := tx.Where("project_id = ? AND id <> ?", task.ProjectID, task.ID).Find(&siblings).Error; err != nil {
		return err
	}
	for _, s := range siblings {
		for _, p := range s.PredecessorIDs {
			if p == task.ID {
				return &ValidationError{Message: fmt.Sprintf("task %d is a predecessor of task %d", task.ID, s.ID)}
			}
		}
	}
	return tx.Delete(&model.Task{}, task.ID).Error
}

// StartTask moves a task from not_started to in_progress. Guarded by
// can_start: every predecessor must be completed. The guard runs on
// the row re-fetched under the project lock, not on any earlier
// snapshot, so concurrent transitions cannot both pass it.
func (l *TaskLogic) StartTask(taskID int64) error {
	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		all, err := l.projectTasks(tx, task.ProjectID)
		if err != nil {
			return err
		}
		if err := guardStart(task, all); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     model.TaskStatusInProgress,
			"started_at": &now,
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return err
		}
		return l.refreshAggregates(tx, task.ProjectID)
	})
}

// CompleteTask moves a task from in_progress to completed and pins
// its progress to 100.
func (l *TaskLogic) CompleteTask(taskID int64) error {
	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if err := guardComplete(task); err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":              model.TaskStatusCompleted,
			"progress_percentage": 100,
			"completed_at":        &now,
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return err
		}
		return l.refreshAggregates(tx, task.ProjectID)
	})
}

// UpdateProgress records a progress percentage and optional note.
func (l *TaskLogic) UpdateProgress(taskID int64, percentage int, note string) error {
	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if err := validateProgress(task.Status, task.ProgressPercentage, percentage); err != nil {
			return err
		}

		updates := map[string]interface{}{"progress_percentage": percentage}
		if note != "" {
			updates["notes"] = note
		}
		return tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates).Error
	})
}

// QualityCheck records an inspection result. A failed check sends the
// task back to in_progress for rework.
func (l *TaskLogic) QualityCheck(taskID int64, status model.QualityStatus, note string) error {
	switch status {
	case model.QualityStatusPassed, model.QualityStatusFailed, model.QualityStatusRework:
	default:
		return &ValidationError{Field: "quality_status", Message: fmt.Sprintf("unknown quality status %q", status)}
	}

	projectID, err := l.taskProjectID(taskID)
	if err != nil {
		return err
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		task, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		updates := qualityUpdates(task, status, note)
		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return err
		}
		return l.refreshAggregates(tx, task.ProjectID)
	})
}

// AttachPhotos appends uploaded photo file names to a task.
func (l *TaskLogic) AttachPhotos(taskID int64, names []string) error {
	task, err := l.getTask(taskID)
	if err != nil {
		return err
	}
	photos := append([]string(task.Photos), names...)
	return l.db.Model(&model.Task{}).Where("id = ?", taskID).
		Update("photos", datatypes.NewJSONSlice(photos)).Error
}

// BulkUpdate applies one action to a set of tasks of the same
// project. Tasks are processed in id order; the first failure aborts
// the whole batch.
func (l *TaskLogic) BulkUpdate(projectID int64, action BulkAction, taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return &ValidationError{Field: "task_ids", Message: "must not be empty"}
	}

	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var tasks []model.Task
		if err := tx.Where("project_id = ? AND id IN ?", projectID, taskIDs).
			Order("id asc").Find(&tasks).Error; err != nil {
			return err
		}
		if len(tasks) != len(taskIDs) {
			return ErrNotFound
		}

		now := time.Now()
		for i := range tasks {
			task := &tasks[i]
			switch action {
			case BulkStart:
				all, err := l.projectTasks(tx, projectID)
				if err != nil {
					return err
				}
				if !task.CanStart(all) {
					return &GuardError{TaskID: task.ID, Reason: "cannot start: predecessors incomplete"}
				}
				err = tx.Model(task).Updates(map[string]interface{}{
					"status":     model.TaskStatusInProgress,
					"started_at": &now,
				}).Error
				if err != nil {
					return err
				}
			case BulkComplete:
				if task.Status != model.TaskStatusInProgress {
					return &GuardError{TaskID: task.ID, Reason: "cannot complete: task is not in progress"}
				}
				err := tx.Model(task).Updates(map[string]interface{}{
					"status":              model.TaskStatusCompleted,
					"progress_percentage": 100,
					"completed_at":        &now,
				}).Error
				if err != nil {
					return err
				}
			case BulkDelete:
				if err := l.deleteTaskLocked(tx, task); err != nil {
					return err
				}
			}
		}

		if action == BulkDelete {
			return l.recalculateLocked(tx, projectID)
		}
		return l.refreshAggregates(tx, projectID)
	})
}

// Recalculate forces a full CPM recalculation for a project.
func (l *TaskLogic) Recalculate(projectID int64) error {
	mu := l.locks.get(projectID)
	mu.Lock()
	defer mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		return l.recalculateLocked(tx, projectID)
	})
}

// recalculateLocked reruns the CPM calculator over the project's
// current task set and persists the schedule outputs. The caller
// must hold the project lock.
func (l *TaskLogic) recalculateLocked(tx *gorm.DB, projectID int64) error {
	tasks, err := l.projectTasks(tx, projectID)
	if err != nil {
		return err
	}

	inputs := make([]cpm.TaskInput, 0, len(tasks))
	for _, t := range tasks {
		inputs = append(inputs, cpm.TaskInput{
			ID:             t.ID,
			DurationDays:   t.DurationDays,
			PredecessorIDs: t.PredecessorIDs,
		})
	}

	result, err := cpm.Calculate(inputs)
	if err != nil {
		return fmt.Errorf("schedule calculation failed: %w", err)
	}

	for _, t := range tasks {
		s := result.Tasks[t.ID]
		if s.ES == t.EarlyStart && s.EF == t.EarlyFinish &&
			s.LS == t.LateStart && s.LF == t.LateFinish &&
			s.TotalFloat == t.TotalFloat && s.IsCritical == t.IsCritical {
			continue
		}
		err := tx.Model(&model.Task{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"early_start":  s.ES,
			"early_finish": s.EF,
			"late_start":   s.LS,
			"late_finish":  s.LF,
			"total_float":  s.TotalFloat,
			"is_critical":  s.IsCritical,
		}).Error
		if err != nil {
			return err
		}
	}

	logger.Debug("Recalculated schedule for project %d: duration %d days, %d critical tasks",
		projectID, result.Duration, len(result.CriticalPath))

	return l.refreshAggregatesWithDuration(tx, projectID, &result.Duration)
}

// refreshAggregates recomputes and stores the project rollup.
func (l *TaskLogic) refreshAggregates(tx *gorm.DB, projectID int64) error {
	return l.refreshAggregatesWithDuration(tx, projectID, nil)
}

func (l *TaskLogic) refreshAggregatesWithDuration(tx *gorm.DB, projectID int64, duration *int) error {
	var project model.Project
	if err := tx.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	tasks, err := l.projectTasks(tx, projectID)
	if err != nil {
		return err
	}

	stats := ComputeStats(&project, tasks, time.Now())
	updates := map[string]interface{}{
		"total_tasks":         stats.TotalTasks,
		"completed_tasks":     stats.CompletedTasks,
		"in_progress_tasks":   stats.InProgressTasks,
		"critical_tasks":      stats.CriticalTasks,
		"progress_percentage": stats.ProgressPercentage,
	}
	if duration != nil {
		updates["schedule_duration"] = *duration
	}

	// Promote a pending project once work actually starts.
	if project.Status == model.ProjectStatusPending && stats.InProgressTasks > 0 {
		updates["status"] = model.ProjectStatusInProgress
	}

	return tx.Model(&model.Project{}).Where("id = ?", projectID).Updates(updates).Error
}

func (l *TaskLogic) getTask(taskID int64) (*model.Task, error) {
	return getTaskTx(l.db, taskID)
}

func getTaskTx(tx *gorm.DB, taskID int64) (*model.Task, error) {
	var task model.Task
	if err := tx.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// taskProjectID resolves the owning project before the per-project lock
// is taken. The task row itself is re-read inside the locked transaction
// so workflow guards never act on a stale snapshot.
func (l *TaskLogic) taskProjectID(taskID int64) (int64, error) {
	var task model.Task
	if err := l.db.Select("id", "project_id").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return task.ProjectID, nil
}

func (l *TaskLogic) projectTasks(tx *gorm.DB, projectID int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := tx.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
