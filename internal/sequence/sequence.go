// Package sequence hands out human-readable identifiers from named counters
// stored in the sequences table.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mohib357/mamstar-plan/pkg/db/models"
)

const (
	ProductCode = "product_code"
	ProductSKU  = "product_sku"
	OrderID     = "order_id"
)

// Next increments the named counter and returns the new value. It must run
// inside the caller's transaction: the UPDATE takes a row lock, so concurrent
// callers serialize and never observe the same value.
func Next(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	if tx == nil {
		return 0, errors.New("sequence: transaction is required")
	}
	if name == "" {
		return 0, errors.New("sequence: name is required")
	}
	db := tx.WithContext(ctx)

	seed := models.Sequence{Name: name, Value: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("sequence %s: ensure row: %w", name, err)
	}

	res := db.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("sequence %s: increment: %w", name, res.Error)
	}
	if res.RowsAffected != 1 {
		return 0, fmt.Errorf("sequence %s: increment touched %d rows", name, res.RowsAffected)
	}

	var row models.Sequence
	if err := db.Where("name = ?", name).Take(&row).Error; err != nil {
		return 0, fmt.Errorf("sequence %s: read back: %w", name, err)
	}
	return row.Value, nil
}

// Format renders n zero-padded to width behind prefix, e.g. Format("PC", 6, 1) = "PC000001".
func Format(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// NextFormatted combines Next and Format.
func NextFormatted(ctx context.Context, tx *gorm.DB, name, prefix string, width int) (string, error) {
	n, err := Next(ctx, tx, name)
	if err != nil {
		return "", err
	}
	return Format(prefix, width, n), nil
}
