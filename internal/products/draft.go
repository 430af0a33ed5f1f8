package product

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/internal/valuation"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	dbtypes "github.com/mohib357/mamstar-plan/pkg/db/types"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

// EntryInput is one variant or combination in a write request. A blank SKU
// is generated from the product code.
type EntryInput struct {
	Color     string
	ColorCode string
	Size      string
	Price     *decimal.Decimal
	Stock     int
	SKU       string
	Image     string
}

// CreateProductInput holds the payload to create a product. Discount is the
// raw user input and is sanitized before use.
type CreateProductInput struct {
	SKU           string
	Name          string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	BrandID       *uuid.UUID

	Price         *decimal.Decimal
	PreviousPrice *decimal.Decimal
	BasePrice     *decimal.Decimal
	CostPrice     *decimal.Decimal
	Discount      string
	Quantity      int
	MinStock      *int

	Description      string
	RichDescription  string
	ShortDescription string
	BulletPoints     []string
	Colors           []string
	Sizes            []string
	Weight           string
	Unit             string
	Dimensions       string
	Material         string
	Warranty         string

	HasVariants     bool
	Variants        []EntryInput
	HasCombinations bool
	Combinations    []EntryInput

	FeaturedImage   string
	MainImages      []string
	GalleryImages   []string
	Videos          []string
	Tags            []string
	ProductTags     []string
	MetaDescription string

	// IsActive defaults to true when nil.
	IsActive    *bool
	IsFeatured  bool
	IsPublished bool
	Manual      bool
}

// UpdateProductInput holds optional mutation values. Nil pointers leave the
// stored value untouched; supplied lists replace the stored list wholesale.
type UpdateProductInput struct {
	SKU           *string
	Name          *string
	CategoryID    *uuid.UUID
	SubCategoryID types.NullableRef
	BrandID       types.NullableRef

	Price         *decimal.Decimal
	PreviousPrice *decimal.Decimal
	BasePrice     *decimal.Decimal
	CostPrice     *decimal.Decimal
	Discount      *string
	Quantity      *int
	MinStock      *int

	Description      *string
	RichDescription  *string
	ShortDescription *string
	BulletPoints     *[]string
	Colors           *[]string
	Sizes            *[]string
	Weight           *string
	Unit             *string
	Dimensions       *string
	Material         *string
	Warranty         *string

	HasVariants     *bool
	Variants        *[]EntryInput
	HasCombinations *bool
	Combinations    *[]EntryInput

	FeaturedImage   *string
	MainImages      *[]string
	GalleryImages   *[]string
	Videos          *[]string
	Tags            *[]string
	ProductTags     *[]string
	MetaDescription *string

	IsActive    *bool
	IsFeatured  *bool
	IsPublished *bool
	Manual      *bool
}

// buildProduct validates in and returns the product it describes, without
// identifiers. Every problem is added to problems; the returned product is
// only meaningful when problems stays empty.
func buildProduct(in CreateProductInput, problems pkgerrors.FieldErrors) *models.Product {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		problems.Add("name", "required")
	}
	if in.CategoryID == nil || *in.CategoryID == uuid.Nil {
		problems.Add("category", "required")
	}

	pricing := resolvePricing(in, problems)

	if in.Quantity < 0 {
		problems.Add("quantity", "must not be negative")
	}
	minStock := valuation.DefaultMinStock
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			problems.Add("minStock", "must not be negative")
		}
		minStock = *in.MinStock
	}
	if in.HasVariants && len(in.Variants) == 0 {
		problems.Add("variants", "required when hasVariants is true")
	}
	if in.HasCombinations && len(in.Combinations) == 0 {
		problems.Add("combinations", "required when hasCombinations is true")
	}
	checkEntries("variants", in.Variants, problems)
	checkEntries("combinations", in.Combinations, problems)

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	p := &models.Product{
		SKU:              normalizeSKU(in.SKU),
		Name:             name,
		SubCategoryID:    nonNilRef(in.SubCategoryID),
		BrandID:          nonNilRef(in.BrandID),
		Price:            pricing.Price,
		PreviousPrice:    toNull(pricing.PreviousPrice),
		BasePrice:        pricing.BasePrice,
		CostPrice:        toNull(pricing.CostPrice),
		Discount:         pricing.Discount,
		Quantity:         in.Quantity,
		MinStock:         minStock,
		Description:      in.Description,
		RichDescription:  in.RichDescription,
		ShortDescription: in.ShortDescription,
		BulletPoints:     stringList(in.BulletPoints),
		Colors:           stringList(in.Colors),
		Sizes:            stringList(in.Sizes),
		Weight:           strings.TrimSpace(in.Weight),
		Unit:             strings.TrimSpace(in.Unit),
		Dimensions:       strings.TrimSpace(in.Dimensions),
		Material:         strings.TrimSpace(in.Material),
		Warranty:         strings.TrimSpace(in.Warranty),
		HasVariants:      in.HasVariants,
		HasCombinations:  in.HasCombinations,
		FeaturedImage:    strings.TrimSpace(in.FeaturedImage),
		MainImages:       stringList(in.MainImages),
		GalleryImages:    stringList(in.GalleryImages),
		Videos:           stringList(in.Videos),
		Tags:             stringList(in.Tags),
		ProductTags:      stringList(in.ProductTags),
		MetaDescription:  in.MetaDescription,
		IsActive:         active,
		IsFeatured:       in.IsFeatured,
		IsPublished:      in.IsPublished,
		Manual:           in.Manual,
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	for i, e := range in.Variants {
		p.Variants = append(p.Variants, models.ProductVariant{
			Position: i, Color: strings.TrimSpace(e.Color), ColorCode: strings.TrimSpace(e.ColorCode),
			Size: strings.TrimSpace(e.Size), Price: roundNull(e.Price), Stock: e.Stock,
			SKU: normalizeSKU(e.SKU), Image: strings.TrimSpace(e.Image),
		})
	}
	for i, e := range in.Combinations {
		p.Combinations = append(p.Combinations, models.ProductCombination{
			Position: i, Color: strings.TrimSpace(e.Color), ColorCode: strings.TrimSpace(e.ColorCode),
			Size: strings.TrimSpace(e.Size), Price: roundNull(e.Price), Stock: e.Stock,
			SKU: normalizeSKU(e.SKU), Image: strings.TrimSpace(e.Image),
		})
	}
	return p
}

func resolvePricing(in CreateProductInput, problems pkgerrors.FieldErrors) valuation.Pricing {
	var discount *decimal.Decimal
	if raw := strings.TrimSpace(in.Discount); raw != "" {
		d, err := valuation.SanitizeDiscount(raw)
		if err != nil {
			problems.Add("discount", err.Error())
		} else {
			discount = &d
		}
	}
	pricing, priceProblems := valuation.ResolvePricing(valuation.PriceInput{
		Price:         in.Price,
		BasePrice:     in.BasePrice,
		PreviousPrice: in.PreviousPrice,
		CostPrice:     in.CostPrice,
		Discount:      discount,
	})
	for field, reason := range priceProblems {
		problems.Add(field, reason)
	}
	return pricing
}

// checkEntries rejects negative values, explicit SKUs repeated within the
// list and repeated color/size pairs.
func checkEntries(field string, entries []EntryInput, problems pkgerrors.FieldErrors) {
	skus := map[string]int{}
	pairs := map[string]int{}
	for i, e := range entries {
		at := fmt.Sprintf("%s[%d]", field, i)
		if e.Stock < 0 {
			problems.Add(at+".stock", "must not be negative")
		}
		if e.Price != nil && e.Price.IsNegative() {
			problems.Add(at+".price", "must not be negative")
		}
		if sku := normalizeSKU(e.SKU); sku != "" {
			if j, ok := skus[sku]; ok {
				problems.Add(at+".sku", fmt.Sprintf("duplicates %s[%d]", field, j))
			} else {
				skus[sku] = i
			}
		}
		color, size := strings.TrimSpace(e.Color), strings.TrimSpace(e.Size)
		if color == "" || size == "" {
			continue
		}
		key := strings.ToLower(color) + "\x00" + strings.ToLower(size)
		if j, ok := pairs[key]; ok {
			problems.Add(at, fmt.Sprintf("color and size duplicate %s[%d]", field, j))
		} else {
			pairs[key] = i
		}
	}
}

// assignEntrySKUs gives every entry without a SKU the next free
// "<code>-<n>", where n starts at the entry's 1-based position.
func assignEntrySKUs(p *models.Product) {
	fill := func(skus []*string) {
		taken := map[string]struct{}{}
		for _, sku := range skus {
			if *sku != "" {
				taken[*sku] = struct{}{}
			}
		}
		for i, sku := range skus {
			if *sku != "" {
				continue
			}
			for n := i + 1; ; n++ {
				candidate := fmt.Sprintf("%s-%d", p.ProductCode, n)
				if _, ok := taken[candidate]; !ok {
					*sku = candidate
					taken[candidate] = struct{}{}
					break
				}
			}
		}
	}

	variantSKUs := make([]*string, len(p.Variants))
	for i := range p.Variants {
		variantSKUs[i] = &p.Variants[i].SKU
	}
	fill(variantSKUs)

	combinationSKUs := make([]*string, len(p.Combinations))
	for i := range p.Combinations {
		combinationSKUs[i] = &p.Combinations[i].SKU
	}
	fill(combinationSKUs)
}

// draftFromModel turns a stored product back into a create payload so an
// update can be validated exactly like a create. Stored SKUs become explicit.
func draftFromModel(p *models.Product) CreateProductInput {
	categoryID := p.CategoryID
	minStock := p.MinStock
	active := p.IsActive
	return CreateProductInput{
		SKU:              p.SKU,
		Name:             p.Name,
		CategoryID:       &categoryID,
		SubCategoryID:    p.SubCategoryID,
		BrandID:          p.BrandID,
		Price:            &p.Price,
		PreviousPrice:    nullable(p.PreviousPrice),
		BasePrice:        &p.BasePrice,
		CostPrice:        nullable(p.CostPrice),
		Quantity:         p.Quantity,
		MinStock:         &minStock,
		Description:      p.Description,
		RichDescription:  p.RichDescription,
		ShortDescription: p.ShortDescription,
		BulletPoints:     p.BulletPoints,
		Colors:           p.Colors,
		Sizes:            p.Sizes,
		Weight:           p.Weight,
		Unit:             p.Unit,
		Dimensions:       p.Dimensions,
		Material:         p.Material,
		Warranty:         p.Warranty,
		HasVariants:      p.HasVariants,
		Variants:         variantInputs(p.Variants),
		HasCombinations:  p.HasCombinations,
		Combinations:     combinationInputs(p.Combinations),
		FeaturedImage:    p.FeaturedImage,
		MainImages:       p.MainImages,
		GalleryImages:    p.GalleryImages,
		Videos:           p.Videos,
		Tags:             p.Tags,
		ProductTags:      p.ProductTags,
		MetaDescription:  p.MetaDescription,
		IsActive:         &active,
		IsFeatured:       p.IsFeatured,
		IsPublished:      p.IsPublished,
		Manual:           p.Manual,
	}
}

// applyUpdate merges the supplied fields of in over draft. A new discount
// without a new previous price drops the stored previous price so the
// discount can derive it again.
func applyUpdate(draft *CreateProductInput, in UpdateProductInput, problems pkgerrors.FieldErrors) {
	if in.SKU != nil {
		if strings.TrimSpace(*in.SKU) == "" {
			problems.Add("sku", "must not be blank")
		}
		draft.SKU = *in.SKU
	}
	setString(&draft.Name, in.Name)
	if in.CategoryID != nil {
		draft.CategoryID = in.CategoryID
	}
	if in.SubCategoryID.Set {
		draft.SubCategoryID = in.SubCategoryID.Value
	}
	if in.BrandID.Set {
		draft.BrandID = in.BrandID.Value
	}

	if in.Price != nil {
		draft.Price = in.Price
	}
	if in.BasePrice != nil {
		draft.BasePrice = in.BasePrice
	}
	if in.CostPrice != nil {
		draft.CostPrice = in.CostPrice
	}
	switch {
	case in.PreviousPrice != nil:
		draft.PreviousPrice = in.PreviousPrice
	case in.Discount != nil:
		draft.PreviousPrice = nil
		draft.Discount = *in.Discount
	}
	if in.Quantity != nil {
		draft.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		draft.MinStock = in.MinStock
	}

	setString(&draft.Description, in.Description)
	setString(&draft.RichDescription, in.RichDescription)
	setString(&draft.ShortDescription, in.ShortDescription)
	setList(&draft.BulletPoints, in.BulletPoints)
	setList(&draft.Colors, in.Colors)
	setList(&draft.Sizes, in.Sizes)
	setString(&draft.Weight, in.Weight)
	setString(&draft.Unit, in.Unit)
	setString(&draft.Dimensions, in.Dimensions)
	setString(&draft.Material, in.Material)
	setString(&draft.Warranty, in.Warranty)

	setBool(&draft.HasVariants, in.HasVariants)
	if in.Variants != nil {
		draft.Variants = append([]EntryInput(nil), (*in.Variants)...)
	}
	setBool(&draft.HasCombinations, in.HasCombinations)
	if in.Combinations != nil {
		draft.Combinations = append([]EntryInput(nil), (*in.Combinations)...)
	}

	setString(&draft.FeaturedImage, in.FeaturedImage)
	setList(&draft.MainImages, in.MainImages)
	setList(&draft.GalleryImages, in.GalleryImages)
	setList(&draft.Videos, in.Videos)
	setList(&draft.Tags, in.Tags)
	setList(&draft.ProductTags, in.ProductTags)
	setString(&draft.MetaDescription, in.MetaDescription)

	if in.IsActive != nil {
		draft.IsActive = in.IsActive
	}
	setBool(&draft.IsFeatured, in.IsFeatured)
	setBool(&draft.IsPublished, in.IsPublished)
	setBool(&draft.Manual, in.Manual)
}

func variantInputs(vs []models.ProductVariant) []EntryInput {
	out := make([]EntryInput, 0, len(vs))
	for _, v := range vs {
		out = append(out, EntryInput{Color: v.Color, ColorCode: v.ColorCode, Size: v.Size, Price: nullable(v.Price), Stock: v.Stock, SKU: v.SKU, Image: v.Image})
	}
	return out
}

func combinationInputs(cs []models.ProductCombination) []EntryInput {
	out := make([]EntryInput, 0, len(cs))
	for _, c := range cs {
		out = append(out, EntryInput{Color: c.Color, ColorCode: c.ColorCode, Size: c.Size, Price: nullable(c.Price), Stock: c.Stock, SKU: c.SKU, Image: c.Image})
	}
	return out
}

// snapshotOf is the valuation view of a product.
func snapshotOf(p *models.Product) valuation.Snapshot {
	minStock := p.MinStock
	s := valuation.Snapshot{
		HasVariants:     p.HasVariants,
		HasCombinations: p.HasCombinations,
		Quantity:        p.Quantity,
		MinStock:        &minStock,
		BasePrice:       p.BasePrice,
	}
	for _, v := range p.Variants {
		s.Variants = append(s.Variants, valuation.Entry{Price: nullable(v.Price), Stock: v.Stock})
	}
	for _, c := range p.Combinations {
		s.Combinations = append(s.Combinations, valuation.Entry{Price: nullable(c.Price), Stock: c.Stock})
	}
	return s
}

func deriveFor(p *models.Product) valuation.Derived {
	return valuation.Summarize(snapshotOf(p), nullable(p.CostPrice), nullable(p.PreviousPrice), p.Price)
}

// applyDerived stores the derived columns used by list filters and stats.
func applyDerived(p *models.Product) {
	d := deriveFor(p)
	p.TotalStock = d.TotalStock
	p.LowStock = d.IsLowStock
	p.MinPrice = d.MinimumPrice
	p.ProfitMargin = d.ProfitMargin
}

func normalizeSKU(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func nonNilRef(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}

func roundNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}

func stringList(in []string) dbtypes.StringList {
	out := make(dbtypes.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = append([]string(nil), (*v)...)
	}
}
