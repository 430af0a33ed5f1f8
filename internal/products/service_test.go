package product

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/repo/repotest"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
	"github.com/mohib357/mamstar-plan/pkg/redis"
	"github.com/mohib357/mamstar-plan/pkg/types"
)

type fixture struct {
	svc      Service
	db       *gorm.DB
	reg      *prometheus.Registry
	cache    *fakeCache
	category models.Category
	brand    models.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := repotest.Client(t)
	reg := prometheus.NewRegistry()
	cache := newFakeCache()

	svc, err := NewService(NewRepository(client.DB()), client, cache, metrics.NewCatalogMetrics(reg), logger.Nop(), config.CatalogConfig{
		DefaultPageSize:   10,
		StatsCacheTTL:     time.Minute,
		IdentifierRetries: 3,
	})
	require.NoError(t, err)

	f := &fixture{svc: svc, db: client.DB(), reg: reg, cache: cache}
	f.category = models.Category{Name: "Apparel", Slug: "apparel", IsActive: true}
	require.NoError(t, f.db.Create(&f.category).Error)
	f.brand = models.Brand{Name: "Mamstar", Slug: "mamstar", IsActive: true}
	require.NoError(t, f.db.Create(&f.brand).Error)
	return f
}

func (f *fixture) input(name string, price string) CreateProductInput {
	p := decimal.RequireFromString(price)
	categoryID := f.category.ID
	return CreateProductInput{
		Name:       name,
		CategoryID: &categoryID,
		Price:      &p,
		Quantity:   20,
	}
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchesLabel(m.GetLabel(), label, value) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	if name == "" {
		return true
	}
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := repotest.Client(t)
	_, err := NewService(nil, client, nil, nil, logger.Nop(), config.CatalogConfig{})
	require.Error(t, err)
	_, err = NewService(NewRepository(client.DB()), nil, nil, nil, logger.Nop(), config.CatalogConfig{})
	require.Error(t, err)
	_, err = NewService(NewRepository(client.DB()), client, nil, nil, nil, config.CatalogConfig{})
	require.Error(t, err)
}

func TestCreateAssignsIdentifiersAndDerivedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	brandID := f.brand.ID

	in := f.input("Linen Shirt", "100")
	in.BrandID = &brandID
	in.Discount = "20%"
	in.CostPrice = dec("80")
	in.HasVariants = true
	in.Variants = []EntryInput{
		{Color: "Red", Size: "M", Stock: 3},
		{Color: "Blue", Size: "L", Stock: 10, Price: dec("90")},
	}
	in.RichDescription = "<p>Soft <b>linen</b></p>"

	got, err := f.svc.Create(ctx, actor, in)
	require.NoError(t, err)

	assert.Equal(t, "PC000001", got.ProductCode)
	assert.Equal(t, "PROD00001", got.SKU)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "PC000001-1", got.Variants[0].SKU)
	assert.Equal(t, "PC000001-2", got.Variants[1].SKU)
	assert.Equal(t, "<p>Soft <b>linen</b></p>", got.RichDescription)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, actor, *got.CreatedBy)
	assert.True(t, got.IsActive)

	require.NotNil(t, got.Category)
	assert.Equal(t, "Apparel", got.Category.Name)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Mamstar", got.Brand.Name)

	assertDecimal(t, "100", got.BasePrice)
	require.NotNil(t, got.PreviousPrice)
	assertDecimal(t, "125", *got.PreviousPrice)
	assertDecimal(t, "20", got.Discount)

	assert.Equal(t, 13, got.Derived.TotalStock)
	assert.True(t, got.Derived.IsLowStock)
	assertDecimal(t, "90", got.Derived.MinimumPrice)
	assertDecimal(t, "25", got.Derived.ProfitMargin)
	assertDecimal(t, "20", got.Derived.Discount)
	assert.Equal(t, "variants", got.Derived.StockSource)

	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", got.ID).Error)
	assert.Equal(t, 13, stored.TotalStock)
	assert.True(t, stored.LowStock)
	assertDecimal(t, "90", stored.MinPrice)

	assert.Equal(t, float64(1), counterValue(t, f.reg, "catalog_products_created_total", "", ""))
}

func TestCreateValidationListsEveryMissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.Nil, CreateProductInput{Price: dec("10")})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	fields := pkgerrors.FieldDetails(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")
	assert.NotContains(t, fields, "price")

	_, err = f.svc.Create(context.Background(), uuid.Nil, CreateProductInput{
		Quantity: -1,
		Discount: "150",
		Variants: []EntryInput{{SKU: "x"}, {SKU: "X", Stock: -2}},
	})
	fields = pkgerrors.FieldDetails(err)
	for _, field := range []string{"name", "category", "price", "quantity", "discount", "variants[1].sku", "variants[1].stock"} {
		assert.Contains(t, fields, field)
	}

	assert.Equal(t, float64(2), counterValue(t, f.reg, "catalog_validation_failures_total", "entity", "product"))
	var count int64
	require.NoError(t, f.db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsUnresolvedReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input("Cap", "15")
	missing := uuid.New()
	in.CategoryID = &missing
	_, err := f.svc.Create(ctx, uuid.Nil, in)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeReference, pkgerrors.As(err).Code())
	assert.Equal(t, map[string]string{"category": "not found"}, pkgerrors.FieldDetails(err))

	in = f.input("Cap", "15")
	in.BrandID = &missing
	_, err = f.svc.Create(ctx, uuid.Nil, in)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"brand": "not found"}, pkgerrors.FieldDetails(err))

	in = f.input("Cap", "15")
	in.SubCategoryID = &missing
	_, err = f.svc.Create(ctx, uuid.Nil, in)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"subCategory": "not found"}, pkgerrors.FieldDetails(err))
}

func TestCreateDuplicateExplicitSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.input("Scarf", "12")
	first.SKU = " scarf-01 "
	created, err := f.svc.Create(ctx, uuid.Nil, first)
	require.NoError(t, err)
	assert.Equal(t, "SCARF-01", created.SKU)

	second := f.input("Other Scarf", "14")
	second.SKU = "SCARF-01"
	_, err = f.svc.Create(ctx, uuid.Nil, second)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, map[string]string{"sku": "already in use"}, pkgerrors.FieldDetails(err))

	again, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Scarf", again.Name)
	assertDecimal(t, "12", again.Price)

	var count int64
	require.NoError(t, f.db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateSkipsGeneratedSKUTakenByExplicitOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	explicit := f.input("Belt", "30")
	explicit.SKU = "PROD00001"
	_, err := f.svc.Create(ctx, uuid.Nil, explicit)
	require.NoError(t, err)

	generated, err := f.svc.Create(ctx, uuid.Nil, f.input("Belt Two", "31"))
	require.NoError(t, err)
	assert.Equal(t, "PROD00002", generated.SKU)
	assert.Equal(t, "PC000002", generated.ProductCode)
	assert.Equal(t, float64(1), counterValue(t, f.reg, "catalog_identifier_retries_total", "sequence", "product_sku"))
}

func TestGetUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteIsIdempotentSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, uuid.Nil, f.input("Socks", "5"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = f.svc.Delete(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateRevalidatesAndKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	brandID := f.brand.ID

	in := f.input("Jacket", "200")
	in.BrandID = &brandID
	in.HasCombinations = true
	in.Combinations = []EntryInput{{Color: "Black", Size: "S", Stock: 8}}
	created, err := f.svc.Create(ctx, actor, in)
	require.NoError(t, err)

	name := "Rain Jacket"
	discount := "10"
	combos := []EntryInput{
		{Color: "Black", Size: "S", Stock: 8, SKU: created.Combinations[0].SKU},
		{Color: "Green", Size: "M", Stock: 2, Price: dec("150")},
	}
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{
		Name:         &name,
		BrandID:      types.NullableRef{Set: true},
		Discount:     &discount,
		Combinations: &combos,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rain Jacket", updated.Name)
	assert.Nil(t, updated.Brand)
	assert.Equal(t, created.ProductCode, updated.ProductCode)
	assert.Equal(t, created.SKU, updated.SKU)
	require.NotNil(t, updated.CreatedBy)
	assert.Equal(t, actor, *updated.CreatedBy)
	require.NotNil(t, updated.PreviousPrice)
	assertDecimal(t, "222.22", *updated.PreviousPrice)
	assertDecimal(t, "10", updated.Discount)

	require.Len(t, updated.Combinations, 2)
	assert.Equal(t, created.ProductCode+"-1", updated.Combinations[0].SKU)
	assert.Equal(t, created.ProductCode+"-2", updated.Combinations[1].SKU)
	assert.Equal(t, 10, updated.Derived.TotalStock)
	assert.True(t, updated.Derived.IsLowStock)
	assertDecimal(t, "150", updated.Derived.MinimumPrice)

	blank := " "
	_, err = f.svc.Update(ctx, created.ID, UpdateProductInput{Name: &blank, SKU: &blank})
	require.Error(t, err)
	fields := pkgerrors.FieldDetails(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "sku")

	_, err = f.svc.Update(ctx, created.ID, UpdateProductInput{BrandID: types.Ref(uuid.New())})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeReference, pkgerrors.As(err).Code())

	_, err = f.svc.Update(ctx, uuid.New(), UpdateProductInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateExplicitSKUConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, uuid.Nil, f.input("A", "1"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, uuid.Nil, f.input("B", "2"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, b.ID, UpdateProductInput{SKU: &a.SKU})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"sku": "already in use"}, pkgerrors.FieldDetails(err))
}

func TestListFiltersActiveProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	brandID := f.brand.ID

	other := models.Category{Name: "Shoes", Slug: "shoes", IsActive: true}
	require.NoError(t, f.db.Create(&other).Error)

	cheap := f.input("Cotton Tee", "10")
	cheap.Description = "basic tee"
	_, err := f.svc.Create(ctx, uuid.Nil, cheap)
	require.NoError(t, err)

	branded := f.input("Silk Tee", "60")
	branded.BrandID = &brandID
	branded.Quantity = 2
	_, err = f.svc.Create(ctx, uuid.Nil, branded)
	require.NoError(t, err)

	shoes := f.input("Runner", "90")
	shoes.CategoryID = &other.ID
	runner, err := f.svc.Create(ctx, uuid.Nil, shoes)
	require.NoError(t, err)

	gone, err := f.svc.Create(ctx, uuid.Nil, f.input("Retired Tee", "20"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, gone.ID))

	names := func(res *ListResult) []string {
		out := make([]string, 0, len(res.Products))
		for _, p := range res.Products {
			out = append(out, p.Name)
		}
		return out
	}

	all, err := f.svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Runner", "Silk Tee", "Cotton Tee"}, names(all))
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, 1, all.TotalPages)
	assert.Equal(t, 1, all.CurrentPage)

	search, err := f.svc.List(ctx, ListInput{Filter: ListFilter{Search: "TEE"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Silk Tee", "Cotton Tee"}, names(search))

	byDescription, err := f.svc.List(ctx, ListInput{Filter: ListFilter{Search: "basic"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotton Tee"}, names(byDescription))

	byCategory, err := f.svc.List(ctx, ListInput{Filter: ListFilter{CategoryID: &other.ID}})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
	assert.Equal(t, runner.ID, byCategory.Products[0].ID)

	byBrand, err := f.svc.List(ctx, ListInput{Filter: ListFilter{BrandID: &brandID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Silk Tee"}, names(byBrand))

	priced, err := f.svc.List(ctx, ListInput{Filter: ListFilter{MinPrice: dec("20"), MaxPrice: dec("90")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Runner", "Silk Tee"}, names(priced))

	low := true
	lowStock, err := f.svc.List(ctx, ListInput{Filter: ListFilter{LowStock: &low}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Silk Tee"}, names(lowStock))

	paged, err := f.svc.List(ctx, ListInput{Pagination: pagination.Params{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotton Tee"}, names(paged))
	assert.Equal(t, 2, paged.TotalPages)
	assert.Equal(t, 2, paged.CurrentPage)
}

func TestStatsCachedAndInvalidatedOnWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, uuid.Nil, f.input("Plenty", "10"))
	require.NoError(t, err)
	empty := f.input("Empty", "10")
	empty.Quantity = 0
	_, err = f.svc.Create(ctx, uuid.Nil, empty)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalProducts: 2, LowStockProducts: 1, OutOfStockProducts: 1}, *stats)
	require.Contains(t, f.cache.items, f.cache.CacheKey(statsCacheKey))

	// a stale cached value is served until a write drops it
	f.cache.items[f.cache.CacheKey(statsCacheKey)] = `{"totalProducts":99}`
	cached, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 99, cached.TotalProducts)

	_, err = f.svc.Create(ctx, uuid.Nil, f.input("Third", "10"))
	require.NoError(t, err)
	assert.NotContains(t, f.cache.items, f.cache.CacheKey(statsCacheKey))

	fresh, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, fresh.TotalProducts)
}

func TestStatsWithoutCache(t *testing.T) {
	client := repotest.Client(t)
	svc, err := NewService(NewRepository(client.DB()), client, nil, nil, logger.Nop(), config.CatalogConfig{})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *stats)
}

func TestPreviewValuesUnsavedPayload(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Preview(CreateProductInput{Price: dec("100"), Discount: "20", CostPrice: dec("50")})
	require.NoError(t, err)
	require.NotNil(t, got.PreviousPrice)
	assertDecimal(t, "125", *got.PreviousPrice)
	assertDecimal(t, "100", got.Derived.ProfitMargin)

	got, err = f.svc.Preview(CreateProductInput{Price: dec("100"), Discount: "12.34%"})
	require.NoError(t, err)
	require.NotNil(t, got.PreviousPrice)
	assertDecimal(t, "114.08", *got.PreviousPrice)
	assertDecimal(t, "12.3", got.Discount)

	got, err = f.svc.Preview(CreateProductInput{Price: dec("100"), Discount: "1.2.5"})
	require.NoError(t, err)
	assertDecimal(t, "1.2", got.Discount)

	_, err = f.svc.Preview(CreateProductInput{Price: dec("100"), Discount: "100"})
	require.Error(t, err)
	assert.Contains(t, pkgerrors.FieldDetails(err), "discount")
}

var _ redis.Cache = (*fakeCache)(nil)

type fakeCache struct {
	items map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]string{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) error {
	raw, ok := c.items[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = string(b)
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *fakeCache) CacheKey(parts ...string) string {
	key := "test:cache"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
