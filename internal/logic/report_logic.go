package logic

import (
	"bytes"
	"fmt"
	"time"

	"github.com/garasindo/wms/internal/model"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ChartData is the reporting dashboard time series.
type ChartData struct {
	Weeks           []WeekPoint      `json:"weeks"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
	TotalProjects   int64            `json:"total_projects"`
	TotalRevenue    int64            `json:"total_revenue"`
	AvgDurationDays float64          `json:"avg_duration_days"`
}

// WeekPoint is one week of intake/completion counts.
type WeekPoint struct {
	WeekStart time.Time `json:"week_start"`
	Intake    int       `json:"intake"`
	Completed int       `json:"completed"`
}

// ReportLogic backs the reporting endpoints.
type ReportLogic struct {
	db *gorm.DB
}

func NewReportLogic(db *gorm.DB) *ReportLogic {
	return &ReportLogic{db: db}
}

// GetChartData builds the dashboard series over the trailing weeks.
func (r *ReportLogic) GetChartData(weeks int, now time.Time) (*ChartData, error) {
	if weeks < 1 || weeks > 52 {
		weeks = 12
	}
	since := startOfWeek(now).AddDate(0, 0, -7*(weeks-1))

	var projects []model.Project
	err := r.db.Where("entry_date >= ? OR actual_completion_date >= ?", since, since).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load projects for report: %w", err)
	}

	data := &ChartData{
		Weeks:           make([]WeekPoint, weeks),
		StatusBreakdown: make(map[string]int64),
	}
	for i := 0; i < weeks; i++ {
		data.Weeks[i].WeekStart = since.AddDate(0, 0, 7*i)
	}
	bucket := func(t time.Time) (int, bool) {
		idx := int(startOfWeek(t).Sub(since).Hours() / (24 * 7))
		return idx, idx >= 0 && idx < weeks
	}

	var completedCount int64
	var durationSum float64
	for i := range projects {
		p := &projects[i]
		if idx, ok := bucket(p.EntryDate); ok {
			data.Weeks[idx].Intake++
		}
		if p.ActualCompletionDate != nil {
			if idx, ok := bucket(*p.ActualCompletionDate); ok {
				data.Weeks[idx].Completed++
			}
			completedCount++
			durationSum += p.ActualCompletionDate.Sub(p.EntryDate).Hours() / 24
		}
	}
	if completedCount > 0 {
		data.AvgDurationDays = durationSum / float64(completedCount)
	}

	if err := r.db.Model(&model.Project{}).Count(&data.TotalProjects).Error; err != nil {
		return nil, err
	}
	rows, err := r.db.Model(&model.Project{}).
		Select("status, COUNT(*) as count").
		Group("status").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		data.StatusBreakdown[status] = count
	}

	r.db.Model(&model.Project{}).
		Where("status = ?", model.ProjectStatusCompleted).
		Select("COALESCE(SUM(actual_cost), 0)").
		Scan(&data.TotalRevenue)

	return data, nil
}

var exportHeaders = []string{
	"ID", "Plat Nomor", "Pemilik", "Kendaraan", "Status",
	"Progress (%)", "Masuk", "Target Selesai", "Estimasi Biaya", "Biaya Aktual",
}

// ExportExcel renders all projects into an xlsx workbook.
func (r *ReportLogic) ExportExcel() ([]byte, error) {
	projects, err := r.allProjects()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Projects"
	f.SetSheetName("Sheet1", sheet)
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, p := range projects {
		values := []interface{}{
			p.ID,
			p.PlatNomor,
			p.OwnerName,
			fmt.Sprintf("%s %s", p.VehicleBrand, p.VehicleModel),
			string(p.Status),
			p.ProgressPercentage,
			p.EntryDate.Format("2006-01-02"),
			p.TargetCompletionDate.Format("2006-01-02"),
			p.EstimatedCost,
			p.ActualCost,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF renders the project list into a PDF report.
func (r *ReportLogic) ExportPDF() ([]byte, error) {
	projects, err := r.allProjects()
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Laporan Proyek Bengkel")
	pdf.Ln(12)

	widths := []float64{12, 30, 40, 50, 28, 22, 25, 25, 28, 28}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range exportHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range projects {
		values := []string{
			fmt.Sprintf("%d", p.ID),
			p.PlatNomor,
			p.OwnerName,
			fmt.Sprintf("%s %s", p.VehicleBrand, p.VehicleModel),
			string(p.Status),
			fmt.Sprintf("%d%%", p.ProgressPercentage),
			p.EntryDate.Format("2006-01-02"),
			p.TargetCompletionDate.Format("2006-01-02"),
			fmt.Sprintf("%d", p.EstimatedCost),
			fmt.Sprintf("%d", p.ActualCost),
		}
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ReportLogic) allProjects() ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.Order("entry_date desc").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return projects, nil
}

func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // treat Sunday as end of week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
