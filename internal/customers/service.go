package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

var validate = validator.New()

type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Create(ctx context.Context, input CreateInput) (*CustomerDTO, error)
}

type CreateInput struct {
	Name        string
	Email       string
	Phone       string
	Address     types.Address
	DateOfBirth *time.Time
	Gender      string
	Notes       string
	IsActive    *bool
}

type ListInput struct {
	Search     string
	Pagination pagination.Params
}

type ListResult struct {
	Customers []CustomerDTO `json:"customers"`
	pagination.Meta
}

type CustomerDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         *string         `json:"email,omitempty"`
	Phone         string          `json:"phone"`
	Address       types.Address   `json:"address"`
	DateOfBirth   *time.Time      `json:"dateOfBirth,omitempty"`
	Gender        *enums.Gender   `json:"gender,omitempty"`
	TotalOrders   int             `json:"totalOrders"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderDate *time.Time      `json:"lastOrderDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewCustomerDTO(c *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		DateOfBirth:   c.DateOfBirth,
		Gender:        c.Gender,
		TotalOrders:   c.TotalOrders,
		TotalSpent:    c.TotalSpent,
		LastOrderDate: c.LastOrderDate,
		Notes:         c.Notes,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type service struct {
	repo            *Repository
	metrics         *metrics.CatalogMetrics
	logg            *logger.Logger
	defaultPageSize int
}

func NewService(repo *Repository, catalogMetrics *metrics.CatalogMetrics, logg *logger.Logger, defaultPageSize int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, metrics: catalogMetrics, logg: logg, defaultPageSize: defaultPageSize}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	page := input.Pagination.Normalize(s.defaultPageSize)
	rows, total, err := s.repo.FindMany(ctx, input.Search, page)
	if err != nil {
		return nil, db.StorageError(err, "list customers")
	}
	out := &ListResult{
		Customers: make([]CustomerDTO, 0, len(rows)),
		Meta:      pagination.NewMeta(total, page),
	}
	for i := range rows {
		out.Customers = append(out.Customers, NewCustomerDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CustomerDTO, error) {
	problems := pkgerrors.FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		problems.Add("name", "required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		problems.Add("phone", "required")
	}

	var email *string
	if raw := strings.ToLower(strings.TrimSpace(input.Email)); raw != "" {
		if err := validate.Var(raw, "email"); err != nil {
			problems.Add("email", "must be a valid email address")
		}
		email = &raw
	}

	var gender *enums.Gender
	if raw := strings.ToLower(strings.TrimSpace(input.Gender)); raw != "" {
		g, err := enums.ParseGender(raw)
		if err != nil {
			problems.Add("gender", "must be one of male, female, other")
		} else {
			gender = &g
		}
	}

	if input.DateOfBirth != nil && input.DateOfBirth.After(time.Now()) {
		problems.Add("dateOfBirth", "must be in the past")
	}

	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("customer")
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	row := &models.Customer{
		Name:        name,
		Email:       email,
		Phone:       phone,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
		Gender:      gender,
		TotalSpent:  decimal.Zero,
		Notes:       strings.TrimSpace(input.Notes),
		IsActive:    active,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		switch {
		case db.UniqueViolationOn(err, "customers", "email"):
			return nil, pkgerrors.ValidationField("email", "already in use")
		case db.UniqueViolationOn(err, "customers", "phone"):
			return nil, pkgerrors.ValidationField("phone", "already in use")
		}
		return nil, db.StorageError(err, "create customer")
	}

	s.logg.Info(s.logg.WithEntity(ctx, "customer", row.ID.String()), "customer.created")
	dto := NewCustomerDTO(row)
	return &dto, nil
}
