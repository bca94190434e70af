package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garasindo/wms/internal/model"
	"github.com/garasindo/wms/internal/stage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectLogic owns service-order CRUD and rollups.
type ProjectLogic struct {
	db    *gorm.DB
	tasks *TaskLogic
}

func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db, tasks: NewTaskLogic(db)}
}

// CreateProject registers a new service order.
func (p *ProjectLogic) CreateProject(project *model.Project) error {
	if err := p.validateProject(project); err != nil {
		return err
	}

	project.PlatNomor = NormalizePlate(project.PlatNomor)
	project.Status = model.ProjectStatusPending
	if project.EntryDate.IsZero() {
		project.EntryDate = time.Now()
	}

	if err := p.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Field: "plat_nomor", Message: "a project with this plate already exists"}
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// ProjectFilter narrows the project listing.
type ProjectFilter struct {
	Status   string
	Search   string // matches plate, owner name or vehicle model
	Page     int
	PageSize int
}

// GetProjects lists projects with filtering and pagination.
func (p *ProjectLogic) GetProjects(f ProjectFilter) ([]model.Project, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}

	query := p.db.Model(&model.Project{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(plat_nomor) LIKE ? OR LOWER(owner_name) LIKE ? OR LOWER(vehicle_model) LIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []model.Project
	err := query.Order("entry_date desc, id desc").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// ProjectDetail is a project with its tasks and derived pipeline.
type ProjectDetail struct {
	Project     model.Project `json:"project"`
	Steps       []stage.Step  `json:"steps"`
	CurrentStep int           `json:"current_step"`
	Stats       ProjectStats  `json:"stats"`
}

// GetProject loads a project with tasks, stage breakdown and rollup.
func (p *ProjectLogic) GetProject(id int64) (*ProjectDetail, error) {
	var project model.Project
	err := p.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("urutan_tampil asc, id asc")
	}).First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	steps, current := stage.Derive(project.Tasks)
	return &ProjectDetail{
		Project:     project,
		Steps:       steps,
		CurrentStep: current,
		Stats:       ComputeStats(&project, project.Tasks, time.Now()),
	}, nil
}

// ProjectUpdate carries the editable project fields.
type ProjectUpdate struct {
	OwnerName            *string              `json:"owner_name"`
	OwnerPhone           *string              `json:"owner_phone"`
	VehicleBrand         *string              `json:"vehicle_brand"`
	VehicleModel         *string              `json:"vehicle_model"`
	VehicleYear          *int                 `json:"vehicle_year"`
	VehicleColor         *string              `json:"vehicle_color"`
	ServiceType          *string              `json:"service_type"`
	Description          *string              `json:"description"`
	EstimatedCost        *int64               `json:"estimated_cost"`
	ActualCost           *int64               `json:"actual_cost"`
	TargetCompletionDate *time.Time           `json:"target_completion_date"`
	Status               *model.ProjectStatus `json:"status"`
}

// UpdateProject edits the provided fields.
func (p *ProjectLogic) UpdateProject(id int64, upd ProjectUpdate) error {
	updates := make(map[string]interface{})
	if upd.OwnerName != nil {
		updates["owner_name"] = *upd.OwnerName
	}
	if upd.OwnerPhone != nil {
		updates["owner_phone"] = *upd.OwnerPhone
	}
	if upd.VehicleBrand != nil {
		updates["vehicle_brand"] = *upd.VehicleBrand
	}
	if upd.VehicleModel != nil {
		updates["vehicle_model"] = *upd.VehicleModel
	}
	if upd.VehicleYear != nil {
		updates["vehicle_year"] = *upd.VehicleYear
	}
	if upd.VehicleColor != nil {
		updates["vehicle_color"] = *upd.VehicleColor
	}
	if upd.ServiceType != nil {
		updates["service_type"] = *upd.ServiceType
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.EstimatedCost != nil {
		updates["estimated_cost"] = *upd.EstimatedCost
	}
	if upd.ActualCost != nil {
		updates["actual_cost"] = *upd.ActualCost
	}
	if upd.TargetCompletionDate != nil {
		updates["target_completion_date"] = *upd.TargetCompletionDate
	}
	if upd.Status != nil {
		switch *upd.Status {
		case model.ProjectStatusPending, model.ProjectStatusInProgress,
			model.ProjectStatusCompleted, model.ProjectStatusCancelled:
		default:
			return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *upd.Status)}
		}
		updates["status"] = *upd.Status
		if *upd.Status == model.ProjectStatusCompleted {
			now := time.Now()
			updates["actual_completion_date"] = &now
		}
	}
	if len(updates) == 0 {
		return &ValidationError{Message: "no fields to update"}
	}

	result := p.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject soft-deletes a project and its tasks.
func (p *ProjectLogic) DeleteProject(id int64) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("project_id = ?", id).Delete(&model.Task{}).Error
	})
}

// GetProjectStats returns the up-to-date rollup for one project.
func (p *ProjectLogic) GetProjectStats(id int64) (*ProjectStats, error) {
	var project model.Project
	if err := p.db.Preload("Tasks").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	stats := ComputeStats(&project, project.Tasks, time.Now())
	return &stats, nil
}

// AddPhotos appends photo file names to the before or after set.
func (p *ProjectLogic) AddPhotos(id int64, before, after []string) error {
	var project model.Project
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	updates := make(map[string]interface{})
	if len(before) > 0 {
		updates["foto_before"] = datatypes.NewJSONSlice(append([]string(project.FotoBefore), before...))
	}
	if len(after) > 0 {
		updates["foto_after"] = datatypes.NewJSONSlice(append([]string(project.FotoAfter), after...))
	}
	if len(updates) == 0 {
		return &ValidationError{Message: "no photos provided"}
	}
	return p.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error
}

// NormalizePlate canonicalizes a license plate for storage and lookup.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}

func (p *ProjectLogic) validateProject(project *model.Project) error {
	if strings.TrimSpace(project.PlatNomor) == "" {
		return &ValidationError{Field: "plat_nomor", Message: "license plate is required"}
	}
	if strings.TrimSpace(project.OwnerName) == "" {
		return &ValidationError{Field: "owner_name", Message: "owner name is required"}
	}
	if project.TargetCompletionDate.IsZero() {
		return &ValidationError{Field: "target_completion_date", Message: "target completion date is required"}
	}
	if !project.EntryDate.IsZero() && project.TargetCompletionDate.Before(project.EntryDate) {
		return &ValidationError{Field: "target_completion_date", Message: "target must not be before entry date"}
	}
	return nil
}
