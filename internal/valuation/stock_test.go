package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestStockPrecedence(t *testing.T) {
	s := Snapshot{
		HasVariants: true,
		Variants:    []Entry{{Stock: 3}, {Stock: 10}},
		Quantity:    500,
		BasePrice:   d("10"),
	}
	assert.Equal(t, BranchVariants, s.Active())
	assert.True(t, s.IsLowStock())
	assert.Equal(t, 13, s.TotalStock())

	s.Quantity = 0
	assert.Equal(t, 13, s.TotalStock(), "flat quantity must be ignored while variants are active")
}

func TestVariantsBeatCombinations(t *testing.T) {
	s := Snapshot{
		HasVariants:     true,
		Variants:        []Entry{{Stock: 20}},
		HasCombinations: true,
		Combinations:    []Entry{{Stock: 1}},
	}
	assert.Equal(t, BranchVariants, s.Active())
	assert.False(t, s.IsLowStock())
	assert.Equal(t, 20, s.TotalStock())
}

func TestEmptyFlaggedListFallsThrough(t *testing.T) {
	s := Snapshot{
		HasVariants:     true,
		HasCombinations: true,
		Combinations:    []Entry{{Stock: 6}, {Stock: 7}},
	}
	assert.Equal(t, BranchCombinations, s.Active())
	assert.False(t, s.IsLowStock())
	assert.Equal(t, 13, s.TotalStock())

	s.HasCombinations = false
	s.Quantity = 42
	assert.Equal(t, BranchQuantity, s.Active())
	assert.Equal(t, 42, s.TotalStock())
}

func TestFlatQuantityLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minStock *int
		want     bool
	}{
		{name: "default threshold inclusive", quantity: 5, want: true},
		{name: "default threshold above", quantity: 6, want: false},
		{name: "custom threshold", quantity: 9, minStock: intPtr(10), want: true},
		{name: "zero threshold", quantity: 1, minStock: intPtr(0), want: false},
		{name: "out of stock", quantity: 0, minStock: intPtr(0), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{Quantity: tt.quantity, MinStock: tt.minStock}
			assert.Equal(t, tt.want, s.IsLowStock())
		})
	}
}

func TestVariantThresholdIsFixed(t *testing.T) {
	s := Snapshot{
		HasVariants: true,
		Variants:    []Entry{{Stock: 6}, {Stock: 5}},
		MinStock:    intPtr(100),
	}
	assert.True(t, s.IsLowStock())
	s.Variants[1].Stock = 6
	assert.False(t, s.IsLowStock(), "per-product minimum does not apply to variants")
}

func TestMinimumPrice(t *testing.T) {
	t.Run("null entry price falls back to base", func(t *testing.T) {
		s := Snapshot{
			HasCombinations: true,
			Combinations:    []Entry{{Price: dp("60")}, {Price: nil}},
			BasePrice:       d("50"),
		}
		assert.True(t, s.MinimumPrice().Equal(d("50")))
	})

	t.Run("cheapest entry wins", func(t *testing.T) {
		s := Snapshot{
			HasVariants: true,
			Variants:    []Entry{{Price: dp("60")}, {Price: dp("45.5")}, {}},
			BasePrice:   d("50"),
		}
		assert.True(t, s.MinimumPrice().Equal(d("45.5")))
	})

	t.Run("explicit zero price is not a fallback", func(t *testing.T) {
		s := Snapshot{
			HasVariants: true,
			Variants:    []Entry{{Price: dp("0")}},
			BasePrice:   d("50"),
		}
		assert.True(t, s.MinimumPrice().IsZero())
	})

	t.Run("no active list uses base", func(t *testing.T) {
		s := Snapshot{HasVariants: true, BasePrice: d("19.99")}
		assert.True(t, s.MinimumPrice().Equal(d("19.99")))
	})
}

func TestSummarize(t *testing.T) {
	s := Snapshot{
		HasVariants: true,
		Variants:    []Entry{{Price: dp("90"), Stock: 2}, {Stock: 8}},
		BasePrice:   d("100"),
	}
	got := Summarize(s, dp("80"), dp("125"), d("100"))
	assert.True(t, got.ProfitMargin.Equal(d("25")))
	assert.True(t, got.Discount.Equal(d("20")))
	assert.True(t, got.IsLowStock)
	assert.Equal(t, 10, got.TotalStock)
	assert.True(t, got.MinimumPrice.Equal(d("90")))
	assert.Equal(t, "variants", got.StockSource)

	none := Summarize(Snapshot{Quantity: 30, BasePrice: decimal.Zero}, nil, nil, d("10"))
	assert.True(t, none.ProfitMargin.IsZero())
	assert.True(t, none.Discount.IsZero())
	assert.Equal(t, "quantity", none.StockSource)
}
