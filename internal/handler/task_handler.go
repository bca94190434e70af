package handler

import (
	"net/http"

	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/logic"
	"github.com/garasindo/wms/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskLogic *logic.TaskLogic
	uploadCfg config.UploadConfig
}

func NewTaskHandler(db *gorm.DB, uploadCfg config.UploadConfig) *TaskHandler {
	return &TaskHandler{
		taskLogic: logic.NewTaskLogic(db),
		uploadCfg: uploadCfg,
	}
}

// CreateTask adds a task to a project's schedule.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, err := parseID(c)
	if err != nil {
		return
	}

	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskLogic.CreateTask(projectID, &task); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Tugas berhasil dibuat", task)
}

// GetTasks lists a project's tasks in display order.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	projectID, err := parseID(c)
	if err != nil {
		return
	}

	tasks, err := h.taskLogic.GetTasks(projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", tasks)
}

// UpdateTask edits task fields; schedule outputs are recomputed, not
// accepted from the request.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var upd logic.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskLogic.UpdateTask(id, upd); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tugas berhasil diperbarui", nil)
}

// DeleteTask removes a task from the schedule.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.taskLogic.DeleteTask(id); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tugas berhasil dihapus", nil)
}

// StartTask transitions not_started -> in_progress, guarded by
// predecessor completion.
func (h *TaskHandler) StartTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.taskLogic.StartTask(id); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tugas dimulai", nil)
}

// CompleteTask transitions in_progress -> completed.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.taskLogic.CompleteTask(id); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tugas selesai", nil)
}

type progressRequest struct {
	ProgressPercentage *int   `json:"progress_percentage" binding:"required"`
	Note               string `json:"note"`
}

// UpdateProgress records a task's progress percentage and note.
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskLogic.UpdateProgress(id, *req.ProgressPercentage, req.Note); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Progress diperbarui", nil)
}

type qualityRequest struct {
	QualityStatus model.QualityStatus `json:"quality_status" binding:"required"`
	Note          string              `json:"note"`
}

// QualityCheck records an inspection result.
func (h *TaskHandler) QualityCheck(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req qualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskLogic.QualityCheck(id, req.QualityStatus, req.Note); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Hasil pemeriksaan dicatat", nil)
}

// UploadPhotos attaches work photos to a task, at most five per call.
func (h *TaskHandler) UploadPhotos(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	names, err := savePhotos(c, h.uploadCfg, form.File["photos[]"])
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskLogic.AttachPhotos(id, names); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Foto berhasil diunggah", gin.H{"photos": names})
}

type bulkRequest struct {
	Action  string  `json:"action" binding:"required"`
	TaskIDs []int64 `json:"task_ids" binding:"required"`
}

// BulkUpdate applies start/complete/delete to a set of tasks.
func (h *TaskHandler) BulkUpdate(c *gin.Context) {
	projectID, err := parseID(c)
	if err != nil {
		return
	}

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	action, err := logic.ParseBulkAction(req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.taskLogic.BulkUpdate(projectID, action, req.TaskIDs); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Aksi massal berhasil", nil)
}

// Recalculate forces a full CPM recalculation for the project.
func (h *TaskHandler) Recalculate(c *gin.Context) {
	projectID, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.taskLogic.Recalculate(projectID); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Jadwal dihitung ulang", nil)
}
