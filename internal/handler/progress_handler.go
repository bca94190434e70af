package handler

import (
	"net/http"

	"github.com/garasindo/wms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProgressHandler struct {
	progressLogic *logic.ProgressLogic
}

func NewProgressHandler(db *gorm.DB) *ProgressHandler {
	return &ProgressHandler{progressLogic: logic.NewProgressLogic(db)}
}

type checkRequest struct {
	PlatNomor string `json:"plat_nomor" binding:"required"`
}

// Check is the public progress lookup by license plate. Unknown
// plates answer 404 with the envelope so the page can show its
// specific not-found message.
func (h *ProgressHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Masukkan plat nomor kendaraan")
		return
	}

	data, err := h.progressLogic.CheckByPlate(req.PlatNomor)
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", data)
}
