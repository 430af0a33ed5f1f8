package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/repo"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, int64, error) {
	q := r.DB(ctx).Model(&models.Order{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	q = repo.SearchFold(q, filter.Search, "order_number", "customer_name", "customer_phone")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := repo.Page(q.Order("created_at DESC").Order("order_number DESC"), params).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) OrderNumberTaken(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&n).Error
	return n > 0, err
}

// FindProducts loads the active products among ids, keyed by id.
func (r *repository) FindProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.DB(ctx).
		Select("id", "name", "price", "is_active").
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, deliveredAt *time.Time) error {
	updates := map[string]any{"status": status}
	if deliveredAt != nil {
		updates["delivery_date"] = *deliveredAt
	}
	res := r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order and its items. It reports whether a row existed.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.DB(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&models.Order{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	db := r.DB(ctx)
	var out Stats

	if err := db.Model(&models.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", enums.OrderStatusPending).Count(&out.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", enums.OrderStatusDelivered).Count(&out.DeliveredOrders).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("status = ?", enums.OrderStatusDelivered).
		Row().
		Scan(&revenue)
	if err != nil {
		return nil, err
	}
	out.TotalRevenue = decimal.Zero
	if revenue.Valid {
		out.TotalRevenue = revenue.Decimal.Round(2)
	}
	return &out, nil
}
