package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

// ListFilter describes the supported filter knobs for the product browse endpoint.
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	LowStock   *bool
	OutOfStock *bool
	// Active restricts by the soft-delete flag; nil matches both.
	Active *bool
}

// ListInput captures filters plus paging for List.
type ListInput struct {
	Filter     ListFilter
	Pagination pagination.Params
}

// ListResult is one page of products with paging metadata.
type ListResult struct {
	Products []ProductDTO `json:"products"`
	pagination.Meta
}

// Stats summarizes the active catalog.
type Stats struct {
	TotalProducts      int64 `json:"totalProducts"`
	LowStockProducts   int64 `json:"lowStockProducts"`
	OutOfStockProducts int64 `json:"outOfStockProducts"`
}
