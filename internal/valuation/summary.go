package valuation

import "github.com/shopspring/decimal"

// Derived bundles every computed, read-only fact about a product.
type Derived struct {
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	Discount     decimal.Decimal `json:"discountPercent"`
	IsLowStock   bool            `json:"isLowStock"`
	TotalStock   int             `json:"totalStock"`
	MinimumPrice decimal.Decimal `json:"minimumPrice"`
	StockSource  string          `json:"stockSource"`
}

// Summarize computes Derived for a snapshot. The profit margin is taken
// against the snapshot's base price and the discount from previous/current.
func Summarize(s Snapshot, cost, previous *decimal.Decimal, current decimal.Decimal) Derived {
	base := s.BasePrice
	return Derived{
		ProfitMargin: ProfitMargin(&base, cost),
		Discount:     DiscountPercent(previous, &current),
		IsLowStock:   s.IsLowStock(),
		TotalStock:   s.TotalStock(),
		MinimumPrice: s.MinimumPrice(),
		StockSource:  s.Active().String(),
	}
}
