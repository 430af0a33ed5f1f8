package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohib357/mamstar-plan/api/middleware"
	"github.com/mohib357/mamstar-plan/internal/auth"
	"github.com/mohib357/mamstar-plan/internal/users"
	pkgAuth "github.com/mohib357/mamstar-plan/pkg/auth"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
)

type stubAuthService struct {
	req    auth.LoginRequest
	meID   uuid.UUID
	errors bool
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.req = req
	if s.errors {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return &auth.LoginResponse{Token: "tok", ExpiresIn: 3600, User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Me(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	s.meID = id
	return &users.UserDTO{ID: id, Role: enums.RoleAdmin}, nil
}

func TestAuthLogin(t *testing.T) {
	logg := logger.Nop()

	svc := &stubAuthService{}
	rec := serve(AuthLogin(svc, logg), newRequest(http.MethodPost, "/api/auth/login", `{"email":"admin@mamstar.com","password":"secret123"}`, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@mamstar.com", svc.req.Email)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)

	rec = serve(AuthLogin(svc, logg), newRequest(http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeError(t, rec).Error.Details
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Equal(t, "required", details["password"])

	rec = serve(AuthLogin(&stubAuthService{errors: true}, logg), newRequest(http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"x"}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMe(t *testing.T) {
	logg := logger.Nop()
	svc := &stubAuthService{}

	rec := serve(AuthMe(svc, logg), newRequest(http.MethodGet, "/api/auth/me", "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	id := uuid.New()
	req := newRequest(http.MethodGet, "/api/auth/me", "", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &pkgAuth.AccessTokenClaims{UserID: id, Role: enums.RoleAdmin}))
	rec = serve(AuthMe(svc, logg), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.meID)
}
