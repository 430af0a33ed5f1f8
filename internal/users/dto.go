package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohib357/mamstar-plan/pkg/db/models"
	dbtypes "github.com/mohib357/mamstar-plan/pkg/db/types"
	"github.com/mohib357/mamstar-plan/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        enums.Role `json:"role"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	Role         enums.Role
	Permissions  []enums.Permission
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	perms := append([]string{}, u.Permissions...)
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: perms,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	perms := make(dbtypes.StringList, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		perms = append(perms, string(p))
	}

	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		Permissions:  perms,
		IsActive:     isActive,
	}
}

// PermissionsOf parses the stored permission strings, skipping unknown values.
func PermissionsOf(u *models.User) []enums.Permission {
	out := make([]enums.Permission, 0, len(u.Permissions))
	for _, raw := range u.Permissions {
		if p, err := enums.ParsePermission(raw); err == nil {
			out = append(out, p)
		}
	}
	return out
}
