package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/repo"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var row models.Customer
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindMany(ctx context.Context, search string, page pagination.Params) ([]models.Customer, int64, error) {
	q := repo.SearchFold(r.DB(ctx).Model(&models.Customer{}), search, "name", "email", "phone")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Customer
	err := repo.Page(q.Order("created_at DESC").Order("name ASC"), page).Find(&rows).Error
	return rows, total, err
}

func (r *Repository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB(ctx).Create(c).Error
}

// RecordOrder folds a new order into the customer's running totals.
func (r *Repository) RecordOrder(ctx context.Context, id uuid.UUID, amount decimal.Decimal, at time.Time) error {
	res := r.DB(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders":    gorm.Expr("total_orders + 1"),
			"total_spent":     gorm.Expr("total_spent + ?", amount),
			"last_order_date": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordOrderTx applies RecordOrder for order inside tx.
func (r *Repository) RecordOrderTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, order *models.Order) error {
	return r.WithTx(tx).RecordOrder(ctx, id, order.TotalAmount, order.OrderDate)
}
