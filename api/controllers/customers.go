package controllers

import (
	"net/http"

	"github.com/mohib357/mamstar-plan/api/responses"
	"github.com/mohib357/mamstar-plan/api/validators"
	customer "github.com/mohib357/mamstar-plan/internal/customers"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

func CustomerList(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), customer.ListInput{
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type customerRequest struct {
	Name        string        `json:"name"`
	Email       string        `json:"email" validate:"omitempty,email"`
	Phone       string        `json:"phone"`
	Address     types.Address `json:"address"`
	DateOfBirth string        `json:"dateOfBirth"`
	Gender      string        `json:"gender"`
	Notes       string        `json:"notes"`
	IsActive    *bool         `json:"isActive"`
}

func CustomerCreate(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		problems := pkgerrors.FieldErrors{}
		dob := parseDate("dateOfBirth", payload.DateOfBirth, problems)
		if err := problems.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), customer.CreateInput{
			Name:        payload.Name,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Address:     payload.Address,
			DateOfBirth: dob,
			Gender:      payload.Gender,
			Notes:       payload.Notes,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}
