package brand

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

// ListActive returns active brands sorted by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.DB(ctx).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, b *models.Brand) error {
	return r.DB(ctx).Create(b).Error
}
