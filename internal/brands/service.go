package brand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
)

var validate = validator.New()

type Service interface {
	List(ctx context.Context) ([]BrandDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	Create(ctx context.Context, input CreateInput) (*BrandDTO, error)
}

type CreateInput struct {
	Name        string
	Description string
	Logo        string
	Website     string
	IsActive    *bool
}

type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Logo        string    `json:"logo,omitempty"`
	Website     string    `json:"website,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newDTO(b *models.Brand) BrandDTO {
	return BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		Logo:        b.Logo,
		Website:     b.Website,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type service struct {
	repo    *Repository
	metrics *metrics.CatalogMetrics
	logg    *logger.Logger
}

func NewService(repo *Repository, catalogMetrics *metrics.CatalogMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, metrics: catalogMetrics, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]BrandDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, db.StorageError(err, "list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "brand", "load brand")
	}
	dto := newDTO(row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*BrandDTO, error) {
	problems := pkgerrors.FieldErrors{}
	name := strings.TrimSpace(input.Name)
	generated := slug.Make(name)
	switch {
	case name == "":
		problems.Add("name", "required")
	case generated == "":
		problems.Add("name", "must contain letters or digits")
	}
	website := strings.TrimSpace(input.Website)
	if website != "" {
		if err := validate.Var(website, "url"); err != nil {
			problems.Add("website", "must be an absolute URL")
		}
	}
	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("brand")
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	row := &models.Brand{
		Name:        name,
		Slug:        generated,
		Description: strings.TrimSpace(input.Description),
		Logo:        strings.TrimSpace(input.Logo),
		Website:     website,
		IsActive:    active,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.UniqueViolationOn(err, "brands", "name") || db.UniqueViolationOn(err, "brands", "slug") {
			return nil, pkgerrors.ValidationField("name", "already in use")
		}
		return nil, db.StorageError(err, "create brand")
	}

	s.logg.Info(s.logg.WithEntity(ctx, "brand", row.ID.String()), "brand.created")
	dto := newDTO(row)
	return &dto, nil
}
