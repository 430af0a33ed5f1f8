package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/enums"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

type Customer struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Email         *string         `gorm:"column:email;uniqueIndex:uq_customers_email"`
	Phone         string          `gorm:"column:phone;not null;uniqueIndex:uq_customers_phone"`
	Address       types.Address   `gorm:"column:address"`
	DateOfBirth   *time.Time      `gorm:"column:date_of_birth"`
	Gender        *enums.Gender   `gorm:"column:gender"`
	TotalOrders   int             `gorm:"column:total_orders;not null"`
	TotalSpent    decimal.Decimal `gorm:"column:total_spent;type:numeric(12,2);not null"`
	LastOrderDate *time.Time      `gorm:"column:last_order_date"`
	Notes         string          `gorm:"column:notes;type:text"`
	IsActive      bool            `gorm:"column:is_active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
