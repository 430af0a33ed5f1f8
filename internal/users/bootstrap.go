package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/security"
)

// SeedAdminRequest describes the initial admin account.
type SeedAdminRequest struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin creates an admin holding every permission unless a user with the
// same email already exists. It reports whether a user was created.
func SeedAdmin(ctx context.Context, client *db.Client, cfg config.PasswordConfig, req SeedAdminRequest) (*UserDTO, bool, error) {
	if client == nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, false, pkgerrors.ValidationField("email", "required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = "admin"
	}

	var (
		result  *UserDTO
		created bool
	)
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := NewRepository(tx)

		existing, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			result = FromModel(existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		hash, err := security.HashPassword(req.Password, cfg)
		if err != nil {
			if errors.Is(err, security.ErrWeakPassword) {
				return pkgerrors.ValidationField("password", err.Error())
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}

		user, err := userRepo.Create(ctx, CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         enums.RoleAdmin,
			Permissions:  enums.AllPermissions(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		result = FromModel(user)
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}
