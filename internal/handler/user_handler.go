package handler

import (
	"net/http"

	"github.com/garasindo/wms/internal/logic"
	"github.com/garasindo/wms/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	userLogic *logic.UserLogic
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{userLogic: logic.NewUserLogic(db)}
}

type createUserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Role     model.UserRole `json:"role" binding:"required"`
}

// CreateUser registers a staff account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user := model.User{Name: req.Name, Email: req.Email, Role: req.Role}
	if err := h.userLogic.CreateUser(&user, req.Password); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Pengguna berhasil dibuat", user)
}

// GetUsers lists staff accounts.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userLogic.GetUsers(c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", users)
}

// GetUser loads one staff account.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	user, err := h.userLogic.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", user)
}

// UpdateUser edits a staff account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var upd logic.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userLogic.UpdateUser(id, upd); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Pengguna berhasil diperbarui", nil)
}

// DeleteUser removes a staff account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.userLogic.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Pengguna berhasil dihapus", nil)
}
