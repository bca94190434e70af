package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/garasindo/wms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportHandler struct {
	reportLogic *logic.ReportLogic
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{reportLogic: logic.NewReportLogic(db)}
}

// ChartData returns the dashboard time series.
func (h *ReportHandler) ChartData(c *gin.Context) {
	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "12"))

	data, err := h.reportLogic.GetChartData(weeks, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", data)
}

// ExportExcel streams the project list as an xlsx attachment.
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	content, err := h.reportLogic.ExportExcel()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("laporan-proyek-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// ExportPDF streams the project list as a pdf attachment.
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	content, err := h.reportLogic.ExportPDF()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("laporan-proyek-%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}
