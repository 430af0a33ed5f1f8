package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, int64, error)
	OrderNumberTaken(ctx context.Context, number string) (bool, error)
	FindProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, deliveredAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
}

// CustomerLedger keeps per-customer order totals in step with new orders.
type CustomerLedger interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	RecordOrderTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, order *models.Order) error
}
