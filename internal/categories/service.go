package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
)

type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CreateInput) (*CategoryDTO, error)
}

type CreateInput struct {
	Name             string
	Description      string
	Image            string
	ParentCategoryID *uuid.UUID
	// IsActive defaults to true when nil.
	IsActive  *bool
	SortOrder int
}

type CategoryDTO struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description"`
	Image            string     `json:"image,omitempty"`
	ParentCategoryID *uuid.UUID `json:"parentCategory,omitempty"`
	IsActive         bool       `json:"isActive"`
	Order            int        `json:"order"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func newDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:               c.ID,
		Name:             c.Name,
		Slug:             c.Slug,
		Description:      c.Description,
		Image:            c.Image,
		ParentCategoryID: c.ParentCategoryID,
		IsActive:         c.IsActive,
		Order:            c.SortOrder,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

type service struct {
	repo    *Repository
	metrics *metrics.CatalogMetrics
	logg    *logger.Logger
}

func NewService(repo *Repository, catalogMetrics *metrics.CatalogMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, metrics: catalogMetrics, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.StorageError(err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "category", "load category")
	}
	dto := newDTO(row)
	return &dto, nil
}

// Create persists a category. The slug is derived from the name; a name or
// slug already in use is reported on the name field.
func (s *service) Create(ctx context.Context, input CreateInput) (*CategoryDTO, error) {
	problems := pkgerrors.FieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		problems.Add("name", "required")
	}
	if input.SortOrder < 0 {
		problems.Add("order", "must not be negative")
	}
	generated := slug.Make(name)
	if name != "" && generated == "" {
		problems.Add("name", "must contain letters or digits")
	}
	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("category")
		return nil, err
	}

	if input.ParentCategoryID != nil && *input.ParentCategoryID != uuid.Nil {
		_, err := s.repo.FindByID(ctx, *input.ParentCategoryID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.metrics.IncValidationFailure("category")
			return nil, pkgerrors.Reference("parentCategory")
		case err != nil:
			return nil, db.StorageError(err, "load parent category")
		}
	} else {
		input.ParentCategoryID = nil
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	row := &models.Category{
		Name:             name,
		Slug:             generated,
		Description:      strings.TrimSpace(input.Description),
		Image:            strings.TrimSpace(input.Image),
		ParentCategoryID: input.ParentCategoryID,
		IsActive:         active,
		SortOrder:        input.SortOrder,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.UniqueViolationOn(err, "categories", "name") || db.UniqueViolationOn(err, "categories", "slug") {
			return nil, pkgerrors.ValidationField("name", "already in use")
		}
		return nil, db.StorageError(err, "create category")
	}

	s.logg.Info(s.logg.WithEntity(ctx, "category", row.ID.String()), "category.created")
	dto := newDTO(row)
	return &dto, nil
}
