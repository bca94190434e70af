package handler

import (
	"errors"
	"net/http"

	"github.com/garasindo/wms/internal/cpm"
	"github.com/garasindo/wms/internal/logic"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse writes a success envelope.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error envelope.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// respondError maps logic-layer errors onto HTTP statuses: not-found
// 404, workflow guards 409, validation 400, schedule-graph errors 422,
// anything else 500.
func respondError(c *gin.Context, err error) {
	var (
		guardErr      *logic.GuardError
		validationErr *logic.ValidationError
		cycleErr      *cpm.CycleError
		danglingErr   *cpm.DanglingError
		durationErr   *cpm.DurationError
	)
	switch {
	case errors.Is(err, logic.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "Data tidak ditemukan")
	case errors.As(err, &guardErr):
		ErrorResponse(c, http.StatusConflict, guardErr.Error())
	case errors.As(err, &validationErr):
		ErrorResponse(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &cycleErr), errors.As(err, &danglingErr), errors.As(err, &durationErr):
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
