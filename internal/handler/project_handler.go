package handler

import (
	"net/http"
	"strconv"

	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/logic"
	"github.com/garasindo/wms/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
	uploadCfg    config.UploadConfig
}

func NewProjectHandler(db *gorm.DB, uploadCfg config.UploadConfig) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db),
		uploadCfg:    uploadCfg,
	}
}

// CreateProject registers a new service order.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projectLogic.CreateProject(&project); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Proyek berhasil dibuat", project)
}

// GetProjects lists service orders with filters and pagination.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(logic.ProjectFilter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProject returns one project with tasks and pipeline breakdown.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	detail, err := h.projectLogic.GetProject(id)
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", detail)
}

// UpdateProject edits project fields.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var upd logic.ProjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projectLogic.UpdateProject(id, upd); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Proyek berhasil diperbarui", nil)
}

// DeleteProject removes a project and its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.projectLogic.DeleteProject(id); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Proyek berhasil dihapus", nil)
}

// GetProjectStats returns the task rollup for one project.
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id)
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// UploadPhotos attaches intake/delivery photos from a multipart form
// with foto_before[] and foto_after[] file fields.
func (h *ProjectHandler) UploadPhotos(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var before, after []string
	if files := form.File["foto_before[]"]; len(files) > 0 {
		before, err = savePhotos(c, h.uploadCfg, files)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if files := form.File["foto_after[]"]; len(files) > 0 {
		after, err = savePhotos(c, h.uploadCfg, files)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.projectLogic.AddPhotos(id, before, after); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Foto berhasil diunggah", gin.H{
		"foto_before": before,
		"foto_after":  after,
	})
}

// parseID reads the :id path param; on failure it writes the 400
// response itself and returns a non-nil error.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID tidak valid")
		return 0, err
	}
	return id, nil
}
