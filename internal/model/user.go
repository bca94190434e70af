package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff account managed from the admin pages.
type User struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Name         string   `json:"name" gorm:"not null" binding:"required"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role" gorm:"default:'mechanic'"`
	Active       bool     `json:"active" gorm:"default:true"`
}

// UserRole workshop staff role.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleMechanic  UserRole = "mechanic"
	RoleFrontDesk UserRole = "front_desk"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleMechanic, RoleFrontDesk:
		return true
	}
	return false
}
