package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mohib357/mamstar-plan/api/middleware"
	"github.com/mohib357/mamstar-plan/api/responses"
	"github.com/mohib357/mamstar-plan/api/validators"
	product "github.com/mohib357/mamstar-plan/internal/products"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

const maxSearchLen = 120

// ProductList serves the filtered, paginated catalog.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseProductListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseProductListQuery(r *http.Request) (product.ListInput, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return product.ListInput{}, err
	}

	problems := pkgerrors.FieldErrors{}
	filter := product.ListFilter{
		Search: validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
	}
	if filter.CategoryID, err = validators.ParseQueryUUID(r, "category"); err != nil {
		problems.Add("category", "must be a valid id")
	}
	if filter.BrandID, err = validators.ParseQueryUUID(r, "brand"); err != nil {
		problems.Add("brand", "must be a valid id")
	}
	if filter.MinPrice, err = validators.ParseQueryDecimal(r, "minPrice"); err != nil {
		problems.Add("minPrice", "must be a number")
	}
	if filter.MaxPrice, err = validators.ParseQueryDecimal(r, "maxPrice"); err != nil {
		problems.Add("maxPrice", "must be a number")
	}
	if filter.LowStock, err = validators.ParseQueryBool(r, "lowStock"); err != nil {
		problems.Add("lowStock", "must be true or false")
	}
	if filter.OutOfStock, err = validators.ParseQueryBool(r, "outOfStock"); err != nil {
		problems.Add("outOfStock", "must be true or false")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		problems.Add("minPrice", "must not exceed maxPrice")
	}
	if err := problems.Err(); err != nil {
		return product.ListInput{}, err
	}
	return product.ListInput{Filter: filter, Pagination: page}, nil
}

// ProductCreate stores a new product. The caller becomes its creator.
func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.ActorID(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}

func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "id", "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func ProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "id", "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ProductDelete soft-deletes the product.
func ProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseURLParamUUID(r, "id", "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Product deleted successfully")
	}
}

func ProductStats(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// ProductValuationPreview values an unsaved product payload.
func ProductValuationPreview(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Preview(input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type entryRequest struct {
	Color     string           `json:"color"`
	ColorCode string           `json:"colorCode"`
	Size      string           `json:"size"`
	Price     *decimal.Decimal `json:"price"`
	Stock     int              `json:"stock"`
	SKU       string           `json:"sku"`
	Image     string           `json:"image"`
}

type productRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Brand       string `json:"brand"`

	Price         *decimal.Decimal      `json:"price"`
	PreviousPrice *decimal.Decimal      `json:"previousPrice"`
	BasePrice     *decimal.Decimal      `json:"basePrice"`
	CostPrice     *decimal.Decimal      `json:"costPrice"`
	Discount      validators.FlexString `json:"discount"`
	Quantity      int                   `json:"quantity"`
	MinStock      *int                  `json:"minStock"`

	Description      string   `json:"description"`
	RichDescription  string   `json:"richDescription"`
	ShortDescription string   `json:"shortDescription"`
	BulletPoints     []string `json:"bulletPoints"`
	Colors           []string `json:"colors"`
	Sizes            []string `json:"sizes"`
	Weight           string   `json:"weight"`
	Unit             string   `json:"unit"`
	Dimensions       string   `json:"dimensions"`
	Material         string   `json:"material"`
	Warranty         string   `json:"warranty"`

	HasVariants     bool           `json:"hasVariants"`
	Variants        []entryRequest `json:"variants"`
	HasCombinations bool           `json:"hasCombinations"`
	Combinations    []entryRequest `json:"combinations"`

	FeaturedImage   string   `json:"featuredImage"`
	MainImages      []string `json:"mainImages"`
	GalleryImages   []string `json:"galleryImages"`
	Videos          []string `json:"videos"`
	Tags            []string `json:"tags"`
	ProductTags     []string `json:"productTags"`
	MetaDescription string   `json:"metaDescription"`

	IsActive    *bool `json:"isActive"`
	IsFeatured  bool  `json:"isFeatured"`
	IsPublished bool  `json:"isPublished"`
	Manual      bool  `json:"manual"`
}

func (p productRequest) toCreateInput() (product.CreateProductInput, error) {
	problems := pkgerrors.FieldErrors{}
	input := product.CreateProductInput{
		SKU:              strings.TrimSpace(p.SKU),
		Name:             p.Name,
		CategoryID:       parseRef("category", p.Category, problems),
		SubCategoryID:    parseRef("subCategory", p.SubCategory, problems),
		BrandID:          parseRef("brand", p.Brand, problems),
		Price:            p.Price,
		PreviousPrice:    p.PreviousPrice,
		BasePrice:        p.BasePrice,
		CostPrice:        p.CostPrice,
		Discount:         p.Discount.Value,
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
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
		Variants:         entryInputs(p.Variants),
		HasCombinations:  p.HasCombinations,
		Combinations:     entryInputs(p.Combinations),
		FeaturedImage:    p.FeaturedImage,
		MainImages:       p.MainImages,
		GalleryImages:    p.GalleryImages,
		Videos:           p.Videos,
		Tags:             p.Tags,
		ProductTags:      p.ProductTags,
		MetaDescription:  p.MetaDescription,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		IsPublished:      p.IsPublished,
		Manual:           p.Manual,
	}
	if err := problems.Err(); err != nil {
		return product.CreateProductInput{}, err
	}
	return input, nil
}

// productUpdateRequest mirrors productRequest with every field optional.
// subCategory and brand distinguish absent from null.
type productUpdateRequest struct {
	SKU         *string           `json:"sku"`
	Name        *string           `json:"name"`
	Category    *string           `json:"category"`
	SubCategory types.NullableRef `json:"subCategory"`
	Brand       types.NullableRef `json:"brand"`

	Price         *decimal.Decimal      `json:"price"`
	PreviousPrice *decimal.Decimal      `json:"previousPrice"`
	BasePrice     *decimal.Decimal      `json:"basePrice"`
	CostPrice     *decimal.Decimal      `json:"costPrice"`
	Discount      validators.FlexString `json:"discount"`
	Quantity      *int                  `json:"quantity"`
	MinStock      *int                  `json:"minStock"`

	Description      *string   `json:"description"`
	RichDescription  *string   `json:"richDescription"`
	ShortDescription *string   `json:"shortDescription"`
	BulletPoints     *[]string `json:"bulletPoints"`
	Colors           *[]string `json:"colors"`
	Sizes            *[]string `json:"sizes"`
	Weight           *string   `json:"weight"`
	Unit             *string   `json:"unit"`
	Dimensions       *string   `json:"dimensions"`
	Material         *string   `json:"material"`
	Warranty         *string   `json:"warranty"`

	HasVariants     *bool           `json:"hasVariants"`
	Variants        *[]entryRequest `json:"variants"`
	HasCombinations *bool           `json:"hasCombinations"`
	Combinations    *[]entryRequest `json:"combinations"`

	FeaturedImage   *string   `json:"featuredImage"`
	MainImages      *[]string `json:"mainImages"`
	GalleryImages   *[]string `json:"galleryImages"`
	Videos          *[]string `json:"videos"`
	Tags            *[]string `json:"tags"`
	ProductTags     *[]string `json:"productTags"`
	MetaDescription *string   `json:"metaDescription"`

	IsActive    *bool `json:"isActive"`
	IsFeatured  *bool `json:"isFeatured"`
	IsPublished *bool `json:"isPublished"`
	Manual      *bool `json:"manual"`
}

func (p productUpdateRequest) toUpdateInput() (product.UpdateProductInput, error) {
	problems := pkgerrors.FieldErrors{}
	input := product.UpdateProductInput{
		SKU:              p.SKU,
		Name:             p.Name,
		SubCategoryID:    p.SubCategory,
		BrandID:          p.Brand,
		Price:            p.Price,
		PreviousPrice:    p.PreviousPrice,
		BasePrice:        p.BasePrice,
		CostPrice:        p.CostPrice,
		Discount:         p.Discount.Ptr(),
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
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
		HasCombinations:  p.HasCombinations,
		FeaturedImage:    p.FeaturedImage,
		MainImages:       p.MainImages,
		GalleryImages:    p.GalleryImages,
		Videos:           p.Videos,
		Tags:             p.Tags,
		ProductTags:      p.ProductTags,
		MetaDescription:  p.MetaDescription,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		IsPublished:      p.IsPublished,
		Manual:           p.Manual,
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			problems.Add("category", "required")
		}
		input.CategoryID = parseRef("category", *p.Category, problems)
	}
	if p.Variants != nil {
		entries := entryInputs(*p.Variants)
		input.Variants = &entries
	}
	if p.Combinations != nil {
		entries := entryInputs(*p.Combinations)
		input.Combinations = &entries
	}
	if err := problems.Err(); err != nil {
		return product.UpdateProductInput{}, err
	}
	return input, nil
}

func entryInputs(in []entryRequest) []product.EntryInput {
	if in == nil {
		return nil
	}
	out := make([]product.EntryInput, 0, len(in))
	for _, e := range in {
		out = append(out, product.EntryInput{
			Color:     e.Color,
			ColorCode: e.ColorCode,
			Size:      e.Size,
			Price:     e.Price,
			Stock:     e.Stock,
			SKU:       e.SKU,
			Image:     e.Image,
		})
	}
	return out
}
