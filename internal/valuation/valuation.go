// Package valuation derives read-only pricing and stock facts for products
// and normalizes price inputs before they are persisted. It performs no I/O.
package valuation

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrDiscountOutOfRange is returned for discounts outside the accepted percentage range.
	ErrDiscountOutOfRange = errors.New("discount must be between 0 and 100")

	hundred = decimal.NewFromInt(100)
)

// ProfitMargin returns (base-cost)/cost*100 rounded to 2 places. A missing
// base or a missing or zero cost yields zero.
func ProfitMargin(base, cost *decimal.Decimal) decimal.Decimal {
	if base == nil || cost == nil || cost.IsZero() {
		return decimal.Zero
	}
	return base.Sub(*cost).Div(*cost).Mul(hundred).Round(2)
}

// DiscountPercent returns (previous-current)/previous*100 rounded to 1 place,
// or zero unless both prices are present and previous > current.
func DiscountPercent(previous, current *decimal.Decimal) decimal.Decimal {
	if previous == nil || current == nil {
		return decimal.Zero
	}
	if !previous.IsPositive() || !previous.GreaterThan(*current) {
		return decimal.Zero
	}
	pct := previous.Sub(*current).Div(*previous).Mul(hundred).Round(1)
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// PreviousPriceFromDiscount inverts DiscountPercent: current/(1-discount/100)
// rounded to 2 places. discount must lie in [0, 100).
func PreviousPriceFromDiscount(current, discount decimal.Decimal) (decimal.Decimal, error) {
	if discount.IsNegative() || discount.GreaterThanOrEqual(hundred) {
		return decimal.Zero, ErrDiscountOutOfRange
	}
	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	return current.Div(factor).Round(2), nil
}

// SanitizeDiscount interprets raw form input as a percentage. Everything but
// digits and decimal points is dropped and reading stops at a second decimal
// point, so "1.2.5" is 1.2. Input without digits is zero. The value is left
// unrounded and must lie in [0, 100].
func SanitizeDiscount(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	seenDot := false
	digits := 0
scan:
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '.' && seenDot:
			break scan
		case r == '.':
			b.WriteRune(r)
			seenDot = true
		}
	}
	if digits == 0 {
		return decimal.Zero, nil
	}

	cleaned := b.String()
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, ".")

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrDiscountOutOfRange
	}
	if value.IsNegative() || value.GreaterThan(hundred) {
		return decimal.Zero, ErrDiscountOutOfRange
	}
	return value, nil
}
