package category

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/repo"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns active categories first, each group by sort order then name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).
		Order("is_active DESC").
		Order("sort_order ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, c *models.Category) error {
	return r.DB(ctx).Create(c).Error
}
