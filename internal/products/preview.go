package product

import (
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/internal/valuation"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
)

// Preview is the valuation of a payload that has not been saved.
type Preview struct {
	Price         decimal.Decimal   `json:"price"`
	BasePrice     decimal.Decimal   `json:"basePrice"`
	PreviousPrice *decimal.Decimal  `json:"previousPrice,omitempty"`
	CostPrice     *decimal.Decimal  `json:"costPrice,omitempty"`
	Discount      decimal.Decimal   `json:"discount"`
	Derived       valuation.Derived `json:"derived"`
}

// preview validates only the price and stock parts of input; name and
// category are not needed to value a product.
func preview(input CreateProductInput) (*Preview, error) {
	problems := pkgerrors.FieldErrors{}
	p := buildProduct(input, problems)
	delete(problems, "name")
	delete(problems, "category")
	if err := problems.Err(); err != nil {
		return nil, err
	}
	d := deriveFor(p)
	return &Preview{
		Price:         p.Price,
		BasePrice:     p.BasePrice,
		PreviousPrice: nullable(p.PreviousPrice),
		CostPrice:     nullable(p.CostPrice),
		Discount:      p.Discount,
		Derived:       d,
	}, nil
}
