package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/internal/valuation"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
)

// ProductDTO is the product payload returned to clients, including the
// populated references and the derived valuation fields.
type ProductDTO struct {
	ID               uuid.UUID        `json:"id"`
	ProductCode      string           `json:"productCode"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	Category         *CategorySummary `json:"category"`
	SubCategory      *CategorySummary `json:"subCategory,omitempty"`
	Brand            *BrandSummary    `json:"brand,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	PreviousPrice    *decimal.Decimal `json:"previousPrice,omitempty"`
	BasePrice        decimal.Decimal  `json:"basePrice"`
	CostPrice        *decimal.Decimal `json:"costPrice,omitempty"`
	Discount         decimal.Decimal  `json:"discount"`
	Quantity         int              `json:"quantity"`
	MinStock         int              `json:"minStock"`
	Description      string           `json:"description"`
	RichDescription  string           `json:"richDescription"`
	ShortDescription string           `json:"shortDescription"`
	BulletPoints     []string         `json:"bulletPoints"`
	Colors           []string         `json:"colors"`
	Sizes            []string         `json:"sizes"`
	Weight           string           `json:"weight,omitempty"`
	Unit             string           `json:"unit,omitempty"`
	Dimensions       string           `json:"dimensions,omitempty"`
	Material         string           `json:"material,omitempty"`
	Warranty         string           `json:"warranty,omitempty"`
	HasVariants      bool             `json:"hasVariants"`
	Variants         []EntryDTO       `json:"variants"`
	HasCombinations  bool             `json:"hasCombinations"`
	Combinations     []EntryDTO       `json:"combinations"`
	FeaturedImage    string           `json:"featuredImage,omitempty"`
	MainImages       []string         `json:"mainImages"`
	GalleryImages    []string         `json:"galleryImages"`
	Videos           []string         `json:"videos"`
	Tags             []string         `json:"tags"`
	ProductTags      []string         `json:"productTags"`
	MetaDescription  string           `json:"metaDescription,omitempty"`
	IsActive         bool             `json:"isActive"`
	IsFeatured       bool             `json:"isFeatured"`
	IsPublished      bool             `json:"isPublished"`
	Manual           bool             `json:"manual"`

	Derived valuation.Derived `json:"derived"`

	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// EntryDTO is one variant or combination.
type EntryDTO struct {
	ID        uuid.UUID        `json:"id"`
	Color     string           `json:"color,omitempty"`
	ColorCode string           `json:"colorCode,omitempty"`
	Size      string           `json:"size,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Stock     int              `json:"stock"`
	SKU       string           `json:"sku"`
	Image     string           `json:"image,omitempty"`
}

type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type BrandSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Logo string    `json:"logo,omitempty"`
}

// NewProductDTO builds a DTO from a product loaded with its associations.
func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:               p.ID,
		ProductCode:      p.ProductCode,
		SKU:              p.SKU,
		Name:             p.Name,
		Category:         categorySummary(p.Category),
		SubCategory:      categorySummary(p.SubCategory),
		Brand:            brandSummary(p.Brand),
		Price:            p.Price,
		PreviousPrice:    nullable(p.PreviousPrice),
		BasePrice:        p.BasePrice,
		CostPrice:        nullable(p.CostPrice),
		Discount:         p.Discount,
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
		Description:      p.Description,
		RichDescription:  p.RichDescription,
		ShortDescription: p.ShortDescription,
		BulletPoints:     cloneStrings(p.BulletPoints),
		Colors:           cloneStrings(p.Colors),
		Sizes:            cloneStrings(p.Sizes),
		Weight:           p.Weight,
		Unit:             p.Unit,
		Dimensions:       p.Dimensions,
		Material:         p.Material,
		Warranty:         p.Warranty,
		HasVariants:      p.HasVariants,
		Variants:         make([]EntryDTO, 0, len(p.Variants)),
		HasCombinations:  p.HasCombinations,
		Combinations:     make([]EntryDTO, 0, len(p.Combinations)),
		FeaturedImage:    p.FeaturedImage,
		MainImages:       cloneStrings(p.MainImages),
		GalleryImages:    cloneStrings(p.GalleryImages),
		Videos:           cloneStrings(p.Videos),
		Tags:             cloneStrings(p.Tags),
		ProductTags:      cloneStrings(p.ProductTags),
		MetaDescription:  p.MetaDescription,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		IsPublished:      p.IsPublished,
		Manual:           p.Manual,
		Derived:          deriveFor(p),
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, EntryDTO{
			ID: v.ID, Color: v.Color, ColorCode: v.ColorCode, Size: v.Size,
			Price: nullable(v.Price), Stock: v.Stock, SKU: v.SKU, Image: v.Image,
		})
	}
	for _, c := range p.Combinations {
		dto.Combinations = append(dto.Combinations, EntryDTO{
			ID: c.ID, Color: c.Color, ColorCode: c.ColorCode, Size: c.Size,
			Price: nullable(c.Price), Stock: c.Stock, SKU: c.SKU, Image: c.Image,
		})
	}
	return dto
}

func categorySummary(c *models.Category) *CategorySummary {
	if c == nil || c.ID == uuid.Nil {
		return nil
	}
	return &CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func brandSummary(b *models.Brand) *BrandSummary {
	if b == nil || b.ID == uuid.Nil {
		return nil
	}
	return &BrandSummary{ID: b.ID, Name: b.Name, Slug: b.Slug, Logo: b.Logo}
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
