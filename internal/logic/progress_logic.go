package logic

import (
	"errors"
	"fmt"

	"github.com/garasindo/wms/internal/model"
	"github.com/garasindo/wms/internal/stage"
	"gorm.io/gorm"
)

// KendaraanData is the public progress-check payload for one vehicle.
// The steps and current step are derived here, server-side, and
// consumers must not re-derive them.
type KendaraanData struct {
	PlatNomor     string       `json:"plat_nomor"`
	Kendaraan     string       `json:"kendaraan"`
	Warna         string       `json:"warna"`
	Status        string       `json:"status"`
	StatusDetail  string       `json:"statusDetail"`
	Progress      int          `json:"progress"`
	CurrentStep   int          `json:"currentStep"`
	EstimasiHari  int          `json:"estimasiHari"`
	ProgressSteps []stage.Step `json:"progressSteps"`
}

// ProgressLogic backs the customer-facing progress check.
type ProgressLogic struct {
	db *gorm.DB
}

func NewProgressLogic(db *gorm.DB) *ProgressLogic {
	return &ProgressLogic{db: db}
}

// CheckByPlate looks a vehicle up by license plate and returns its
// derived pipeline state. ErrNotFound when the plate is unknown.
func (p *ProgressLogic) CheckByPlate(plate string) (*KendaraanData, error) {
	normalized := NormalizePlate(plate)
	if normalized == "" {
		return nil, &ValidationError{Field: "plat_nomor", Message: "license plate is required"}
	}

	var project model.Project
	err := p.db.Preload("Tasks").
		Where("plat_nomor = ?", normalized).
		Order("entry_date desc").
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up vehicle: %w", err)
	}

	steps, current := stage.Derive(project.Tasks)

	return &KendaraanData{
		PlatNomor:     project.PlatNomor,
		Kendaraan:     fmt.Sprintf("%s %s", project.VehicleBrand, project.VehicleModel),
		Warna:         project.VehicleColor,
		Status:        string(project.Status),
		StatusDetail:  statusDetail(project.Status, current),
		Progress:      project.ProgressPercentage,
		CurrentStep:   current,
		EstimasiHari:  project.ScheduleDuration,
		ProgressSteps: steps,
	}, nil
}

func statusDetail(status model.ProjectStatus, current int) string {
	switch status {
	case model.ProjectStatusPending:
		return "Kendaraan sudah diterima, menunggu jadwal pengerjaan"
	case model.ProjectStatusCompleted:
		return "Pengerjaan selesai, kendaraan siap diambil"
	case model.ProjectStatusCancelled:
		return "Pengerjaan dibatalkan"
	default:
		for _, cfg := range stage.Pipeline {
			if cfg.Ordinal == current {
				return fmt.Sprintf("Sedang dalam tahap %s", cfg.Label)
			}
		}
		return "Sedang dalam pengerjaan"
	}
}
