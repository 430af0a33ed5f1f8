package valuation

import (
	"github.com/shopspring/decimal"
)

// PriceInput is the raw price-related input of a create or update after
// merging with any stored values. Discount is already sanitized.
type PriceInput struct {
	Price         *decimal.Decimal
	BasePrice     *decimal.Decimal
	PreviousPrice *decimal.Decimal
	CostPrice     *decimal.Decimal
	Discount      *decimal.Decimal
}

// Pricing is the normalized, persistable price state of a product.
type Pricing struct {
	Price         decimal.Decimal
	BasePrice     decimal.Decimal
	PreviousPrice *decimal.Decimal
	CostPrice     *decimal.Decimal
	Discount      decimal.Decimal
}

// ResolvePricing fills defaults and derives the discount pair. Missing
// basePrice defaults to price and vice versa. A given previousPrice wins and
// the discount is derived from it; otherwise a positive discount derives the
// previous price. Problems are returned per field.
func ResolvePricing(in PriceInput) (Pricing, map[string]string) {
	problems := map[string]string{}

	price, base := in.Price, in.BasePrice
	switch {
	case price == nil && base == nil:
		problems["price"] = "required"
		return Pricing{}, problems
	case price == nil:
		price = base
	case base == nil:
		base = price
	}

	checkNonNegative(problems, "price", price)
	checkNonNegative(problems, "basePrice", base)
	checkNonNegative(problems, "previousPrice", in.PreviousPrice)
	checkNonNegative(problems, "costPrice", in.CostPrice)

	out := Pricing{
		Price:     price.Round(2),
		BasePrice: base.Round(2),
		CostPrice: roundPtr(in.CostPrice),
	}

	switch {
	case in.PreviousPrice != nil:
		prev := in.PreviousPrice.Round(2)
		out.PreviousPrice = &prev
		out.Discount = DiscountPercent(&prev, &out.Price)
	case in.Discount != nil && in.Discount.IsPositive():
		prev, err := PreviousPriceFromDiscount(out.Price, *in.Discount)
		if err != nil {
			problems["discount"] = "must be below 100 unless previousPrice is given"
			break
		}
		out.PreviousPrice = &prev
		out.Discount = in.Discount.Round(1)
	case in.Discount != nil && in.Discount.IsNegative():
		problems["discount"] = ErrDiscountOutOfRange.Error()
	default:
		out.Discount = decimal.Zero
	}

	if len(problems) > 0 {
		return Pricing{}, problems
	}
	return out, nil
}

func checkNonNegative(problems map[string]string, field string, v *decimal.Decimal) {
	if v != nil && v.IsNegative() {
		problems[field] = "must not be negative"
	}
}

func roundPtr(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(2)
	return &r
}
