package valuation

import "github.com/shopspring/decimal"

const (
	// VariantLowStockThreshold applies to every variant or combination entry.
	VariantLowStockThreshold = 5
	// DefaultMinStock applies to flat quantities when the product sets no minimum.
	DefaultMinStock = 5
)

// Branch names the inventory shape that is authoritative for a product.
type Branch int

const (
	// BranchQuantity uses the product's flat Quantity and MinStock.
	BranchQuantity Branch = iota
	// BranchVariants uses the variant list when HasVariants is set.
	BranchVariants
	// BranchCombinations uses the color/size list when HasCombinations is set.
	BranchCombinations
)

func (b Branch) String() string {
	switch b {
	case BranchVariants:
		return "variants"
	case BranchCombinations:
		return "combinations"
	default:
		return "quantity"
	}
}

// Entry is one variant or combination as seen by the engine. A nil Price
// falls back to the product's base price.
type Entry struct {
	Price *decimal.Decimal
	Stock int
}

// Snapshot is the stock and price view of a stored product.
type Snapshot struct {
	HasVariants     bool
	Variants        []Entry
	HasCombinations bool
	Combinations    []Entry
	Quantity        int
	MinStock        *int
	BasePrice       decimal.Decimal
}

// Active selects the authoritative branch: variants, then combinations, then
// the flat quantity. A flagged list that is empty does not count.
func (s Snapshot) Active() Branch {
	switch {
	case s.HasVariants && len(s.Variants) > 0:
		return BranchVariants
	case s.HasCombinations && len(s.Combinations) > 0:
		return BranchCombinations
	default:
		return BranchQuantity
	}
}

func (s Snapshot) entries() []Entry {
	switch s.Active() {
	case BranchVariants:
		return s.Variants
	case BranchCombinations:
		return s.Combinations
	}
	return nil
}

func (s Snapshot) minStock() int {
	if s.MinStock == nil {
		return DefaultMinStock
	}
	return *s.MinStock
}

// IsLowStock reports whether any entry of the active list is at or below
// VariantLowStockThreshold, or the flat quantity is at or below MinStock.
func (s Snapshot) IsLowStock() bool {
	if s.Active() == BranchQuantity {
		return s.Quantity <= s.minStock()
	}
	for _, e := range s.entries() {
		if e.Stock <= VariantLowStockThreshold {
			return true
		}
	}
	return false
}

// TotalStock sums stock over the active list, or returns the flat quantity.
func (s Snapshot) TotalStock() int {
	if s.Active() == BranchQuantity {
		return s.Quantity
	}
	total := 0
	for _, e := range s.entries() {
		total += e.Stock
	}
	return total
}

// MinimumPrice is the cheapest entry price of the active list, or BasePrice.
func (s Snapshot) MinimumPrice() decimal.Decimal {
	entries := s.entries()
	if len(entries) == 0 {
		return s.BasePrice
	}
	min := s.priceOf(entries[0])
	for _, e := range entries[1:] {
		if p := s.priceOf(e); p.LessThan(min) {
			min = p
		}
	}
	return min
}

func (s Snapshot) priceOf(e Entry) decimal.Decimal {
	if e.Price == nil {
		return s.BasePrice
	}
	return *e.Price
}
