package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/mohib357/mamstar-plan/pkg/db/types"
)

// Product is the canonical catalog record. Exactly one of Quantity, Variants
// or Combinations is authoritative for stock, selected by HasVariants and
// HasCombinations. TotalStock, LowStock, MinPrice and ProfitMargin are derived
// on every write and stored for filtering.
type Product struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductCode   string     `gorm:"column:product_code;not null;uniqueIndex:uq_products_product_code"`
	SKU           string     `gorm:"column:sku;not null;uniqueIndex:uq_products_sku"`
	Name          string     `gorm:"column:name;not null"`
	CategoryID    uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index:idx_products_category_id"`
	SubCategoryID *uuid.UUID `gorm:"column:sub_category_id;type:uuid"`
	BrandID       *uuid.UUID `gorm:"column:brand_id;type:uuid;index:idx_products_brand_id"`

	Category    *Category `gorm:"foreignKey:CategoryID"`
	SubCategory *Category `gorm:"foreignKey:SubCategoryID"`
	Brand       *Brand    `gorm:"foreignKey:BrandID"`

	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	PreviousPrice decimal.NullDecimal `gorm:"column:previous_price;type:numeric(12,2)"`
	BasePrice     decimal.Decimal     `gorm:"column:base_price;type:numeric(12,2);not null"`
	CostPrice     decimal.NullDecimal `gorm:"column:cost_price;type:numeric(12,2)"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(5,1);not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	MinStock      int                 `gorm:"column:min_stock;not null"`

	Description      string             `gorm:"column:description;type:text"`
	RichDescription  string             `gorm:"column:rich_description;type:text"`
	ShortDescription string             `gorm:"column:short_description;type:text"`
	BulletPoints     dbtypes.StringList `gorm:"column:bullet_points"`
	Colors           dbtypes.StringList `gorm:"column:colors"`
	Sizes            dbtypes.StringList `gorm:"column:sizes"`
	Weight           string             `gorm:"column:weight"`
	Unit             string             `gorm:"column:unit"`
	Dimensions       string             `gorm:"column:dimensions"`
	Material         string             `gorm:"column:material"`
	Warranty         string             `gorm:"column:warranty"`

	HasVariants     bool                 `gorm:"column:has_variants;not null"`
	Variants        []ProductVariant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	HasCombinations bool                 `gorm:"column:has_combinations;not null"`
	Combinations    []ProductCombination `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	FeaturedImage   string             `gorm:"column:featured_image"`
	MainImages      dbtypes.StringList `gorm:"column:main_images"`
	GalleryImages   dbtypes.StringList `gorm:"column:gallery_images"`
	Videos          dbtypes.StringList `gorm:"column:videos"`
	Tags            dbtypes.StringList `gorm:"column:tags"`
	ProductTags     dbtypes.StringList `gorm:"column:product_tags"`
	MetaDescription string             `gorm:"column:meta_description;type:text"`

	IsActive    bool `gorm:"column:is_active;not null;index:idx_products_is_active"`
	IsFeatured  bool `gorm:"column:is_featured;not null"`
	IsPublished bool `gorm:"column:is_published;not null"`
	Manual      bool `gorm:"column:manual;not null"`

	TotalStock   int             `gorm:"column:total_stock;not null"`
	LowStock     bool            `gorm:"column:low_stock;not null"`
	MinPrice     decimal.Decimal `gorm:"column:min_price;type:numeric(12,2);not null"`
	ProfitMargin decimal.Decimal `gorm:"column:profit_margin;type:numeric(12,2);not null"`

	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductVariant is one color/size instance of a product with its own stock.
type ProductVariant struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_product_variants_product_sku;uniqueIndex:uq_product_variants_color_size,where:color <> '' AND size <> ''"`
	Position  int                 `gorm:"column:position;not null"`
	Color     string              `gorm:"column:color;uniqueIndex:uq_product_variants_color_size"`
	ColorCode string              `gorm:"column:color_code"`
	Size      string              `gorm:"column:size;uniqueIndex:uq_product_variants_color_size"`
	Price     decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	Stock     int                 `gorm:"column:stock;not null"`
	SKU       string              `gorm:"column:sku;not null;uniqueIndex:uq_product_variants_product_sku"`
	Image     string              `gorm:"column:image"`
}

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ProductCombination mirrors ProductVariant under the alternate naming.
type ProductCombination struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_product_combinations_product_sku;uniqueIndex:uq_product_combinations_color_size,where:color <> '' AND size <> ''"`
	Position  int                 `gorm:"column:position;not null"`
	Color     string              `gorm:"column:color;uniqueIndex:uq_product_combinations_color_size"`
	ColorCode string              `gorm:"column:color_code"`
	Size      string              `gorm:"column:size;uniqueIndex:uq_product_combinations_color_size"`
	Price     decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	Stock     int                 `gorm:"column:stock;not null"`
	SKU       string              `gorm:"column:sku;not null;uniqueIndex:uq_product_combinations_product_sku"`
	Image     string              `gorm:"column:image"`
}

func (c *ProductCombination) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
