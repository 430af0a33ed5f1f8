package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/mohib357/mamstar-plan/pkg/db/types"
	"github.com/mohib357/mamstar-plan/pkg/enums"
)

// User is a back-office operator.
type User struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Username     string             `gorm:"column:username;not null"`
	Email        string             `gorm:"column:email;not null;uniqueIndex:uq_users_email"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Role         enums.Role         `gorm:"column:role;not null"`
	Permissions  dbtypes.StringList `gorm:"column:permissions"`
	IsActive     bool               `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPermission reports whether the user may access a section. Admins may access everything.
func (u User) HasPermission(p enums.Permission) bool {
	if u.Role == enums.RoleAdmin {
		return true
	}
	for _, granted := range u.Permissions {
		if granted == string(p) {
			return true
		}
	}
	return false
}
