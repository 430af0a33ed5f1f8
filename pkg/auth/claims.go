package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mohib357/mamstar-plan/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Email       string
	Role        enums.Role
	Permissions []enums.Permission
}

// AccessTokenClaims represents the typed JWT issued to back-office users.
type AccessTokenClaims struct {
	UserID      uuid.UUID          `json:"user_id"`
	Email       string             `json:"email,omitempty"`
	Role        enums.Role         `json:"role"`
	Permissions []enums.Permission `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Allows reports whether the bearer may access the section guarded by p.
func (c *AccessTokenClaims) Allows(p enums.Permission) bool {
	if c == nil {
		return false
	}
	if c.Role == enums.RoleAdmin {
		return true
	}
	for _, granted := range c.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
