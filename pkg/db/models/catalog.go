package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name             string     `gorm:"column:name;not null;uniqueIndex:uq_categories_name"`
	Slug             string     `gorm:"column:slug;not null;uniqueIndex:uq_categories_slug"`
	Description      string     `gorm:"column:description;type:text"`
	Image            string     `gorm:"column:image"`
	ParentCategoryID *uuid.UUID `gorm:"column:parent_category_id;type:uuid"`
	IsActive         bool       `gorm:"column:is_active;not null"`
	SortOrder        int        `gorm:"column:sort_order;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:uq_brands_name"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:uq_brands_slug"`
	Description string    `gorm:"column:description;type:text"`
	Logo        string    `gorm:"column:logo"`
	Website     string    `gorm:"column:website"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Brand) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
