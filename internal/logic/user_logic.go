package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garasindo/wms/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserLogic owns staff account administration.
type UserLogic struct {
	db *gorm.DB
}

func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// CreateUser registers a staff account.
func (u *UserLogic) CreateUser(user *model.User, password string) error {
	if !model.ValidRole(user.Role) {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", user.Role)}
	}
	if len(password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = string(hash)
	user.Active = true

	if err := u.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Field: "email", Message: "email already registered"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUsers lists accounts, optionally filtered by role.
func (u *UserLogic) GetUsers(role string) ([]model.User, error) {
	query := u.db.Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []model.User
	if err := query.Order("name asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser loads one account.
func (u *UserLogic) GetUser(id int64) (*model.User, error) {
	var user model.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserUpdate carries the editable account fields.
type UserUpdate struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	Active   *bool           `json:"active"`
	Password *string         `json:"password"`
}

// UpdateUser edits an account.
func (u *UserLogic) UpdateUser(id int64, upd UserUpdate) error {
	updates := make(map[string]interface{})
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Role != nil {
		if !model.ValidRole(*upd.Role) {
			return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", *upd.Role)}
		}
		updates["role"] = *upd.Role
	}
	if upd.Active != nil {
		updates["active"] = *upd.Active
	}
	if upd.Password != nil {
		if len(*upd.Password) < 8 {
			return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}
	if len(updates) == 0 {
		return &ValidationError{Message: "no fields to update"}
	}

	result := u.db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser soft-deletes an account.
func (u *UserLogic) DeleteUser(id int64) error {
	result := u.db.Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
