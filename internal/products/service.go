package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/sequence"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/metrics"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
	"github.com/mohib357/mamstar-plan/pkg/redis"
)

const (
	codePrefix = "PC"
	codeWidth  = 6
	skuPrefix  = "PROD"
	skuWidth   = 5

	defaultIdentifierRetries = 3
)

// Service exposes back-office product management.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Stats(ctx context.Context) (*Stats, error)
	Preview(input CreateProductInput) (*Preview, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    redis.Cache
	metrics  *metrics.CatalogMetrics
	logg     *logger.Logger
	cfg      config.CatalogConfig
}

// NewService constructs a product service instance. cache and catalogMetrics
// are optional.
func NewService(repo *Repository, dbClient *db.Client, cache redis.Cache, catalogMetrics *metrics.CatalogMetrics, logg *logger.Logger, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.IdentifierRetries <= 0 {
		cfg.IdentifierRetries = defaultIdentifierRetries
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cache:    cache,
		metrics:  catalogMetrics,
		logg:     logg,
		cfg:      cfg,
	}, nil
}

// Create validates input, resolves references and persists the product with
// freshly allocated identifiers.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	problems := pkgerrors.FieldErrors{}
	template := buildProduct(input, problems)
	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("product")
		return nil, err
	}
	if err := s.resolveReferences(ctx, template); err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		template.CreatedBy = &actorID
	}
	generatedSKU := template.SKU == ""

	var created *models.Product
	for attempt := 1; ; attempt++ {
		product := cloneProduct(template)
		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.insert(ctx, tx, product, generatedSKU)
		})
		if err == nil {
			created = product
			break
		}
		seq, retryable := generatedConflict(err, generatedSKU)
		if retryable && attempt < s.cfg.IdentifierRetries {
			s.metrics.IncIdentifierRetry(seq)
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"sequence": seq, "attempt": attempt}), "sequence.retry")
			continue
		}
		return nil, s.writeError(err, "create product")
	}

	s.invalidateStats(ctx)
	s.metrics.IncProductCreated()
	s.logg.Info(s.logg.WithEntity(ctx, "product", created.ID.String()), "product.created")
	return s.Get(ctx, created.ID)
}

func (s *service) insert(ctx context.Context, tx *gorm.DB, product *models.Product, generatedSKU bool) error {
	txRepo := s.repo.WithTx(tx)

	code, err := s.nextIdentifier(ctx, tx, sequence.ProductCode, codePrefix, codeWidth, "product_code")
	if err != nil {
		return err
	}
	product.ProductCode = code
	if generatedSKU {
		sku, err := s.nextIdentifier(ctx, tx, sequence.ProductSKU, skuPrefix, skuWidth, "sku")
		if err != nil {
			return err
		}
		product.SKU = sku
	}
	assignEntrySKUs(product)
	applyDerived(product)

	return txRepo.Create(ctx, product)
}

// nextIdentifier draws from the counter until the value is not already used
// by a product, which happens when an explicit SKU matches the generated form.
func (s *service) nextIdentifier(ctx context.Context, tx *gorm.DB, seq, prefix string, width int, column string) (string, error) {
	txRepo := s.repo.WithTx(tx)
	for attempt := 0; attempt <= s.cfg.IdentifierRetries; attempt++ {
		value, err := sequence.NextFormatted(ctx, tx, seq, prefix, width)
		if err != nil {
			return "", err
		}
		taken, err := txRepo.IdentifierTaken(ctx, column, value)
		if err != nil {
			return "", err
		}
		if !taken {
			return value, nil
		}
		s.metrics.IncIdentifierRetry(seq)
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"sequence": seq, "value": value}), "sequence.retry")
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a free "+column)
}

// Get returns the product with its populated references and derived fields.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "product", "load product")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

// Update applies a partial update, re-validating and re-deriving the whole
// record. The product code and creator never change.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	existing, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, db.NotFoundOr(err, "product", "load product")
	}

	problems := pkgerrors.FieldErrors{}
	draft := draftFromModel(existing)
	applyUpdate(&draft, input, problems)
	updated := buildProduct(draft, problems)
	if err := problems.Err(); err != nil {
		s.metrics.IncValidationFailure("product")
		return nil, err
	}
	if err := s.resolveReferences(ctx, updated); err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.ProductCode = existing.ProductCode
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	assignEntrySKUs(updated)
	applyDerived(updated)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, updated); err != nil {
			return err
		}
		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, updated.ID, updated.Variants); err != nil {
				return err
			}
		}
		if input.Combinations != nil {
			if err := txRepo.ReplaceCombinations(ctx, updated.ID, updated.Combinations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "update product")
	}

	s.invalidateStats(ctx)
	s.logg.Info(s.logg.WithEntity(ctx, "product", updated.ID.String()), "product.updated")
	return s.Get(ctx, updated.ID)
}

// Delete soft-deletes the product. Deleting an inactive product is a no-op.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return db.NotFoundOr(err, "product", "load product")
	}
	if !product.IsActive {
		return nil
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return db.StorageError(err, "delete product")
	}

	s.invalidateStats(ctx)
	s.logg.Info(s.logg.WithEntity(ctx, "product", id.String()), "product.soft_deleted")
	return nil
}

// List pages through active products.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	page := input.Pagination.Normalize(s.cfg.DefaultPageSize)
	filter := input.Filter
	active := true
	filter.Active = &active

	total, err := s.repo.CountMatching(ctx, filter)
	if err != nil {
		return nil, db.StorageError(err, "count products")
	}
	rows, err := s.repo.FindMany(ctx, filter, page)
	if err != nil {
		return nil, db.StorageError(err, "list products")
	}

	result := &ListResult{
		Products: make([]ProductDTO, 0, len(rows)),
		Meta:     pagination.NewMeta(total, page),
	}
	for i := range rows {
		result.Products = append(result.Products, NewProductDTO(&rows[i]))
	}
	return result, nil
}

// Preview runs the valuation engine over an unsaved payload.
func (s *service) Preview(input CreateProductInput) (*Preview, error) {
	return preview(input)
}

func (s *service) resolveReferences(ctx context.Context, p *models.Product) error {
	checks := []struct {
		field  string
		id     *uuid.UUID
		exists func(context.Context, uuid.UUID) (bool, error)
	}{
		{"category", &p.CategoryID, s.repo.CategoryExists},
		{"subCategory", p.SubCategoryID, s.repo.CategoryExists},
		{"brand", p.BrandID, s.repo.BrandExists},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		ok, err := c.exists(ctx, *c.id)
		if err != nil {
			return db.StorageError(err, "resolve "+c.field)
		}
		if !ok {
			s.metrics.IncValidationFailure("product")
			return pkgerrors.Reference(c.field)
		}
	}
	return nil
}

// writeError translates unique violations into field errors and everything
// else into storage errors.
func (s *service) writeError(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	switch {
	case db.UniqueViolationOn(err, "products", "sku"):
		return pkgerrors.ValidationField("sku", "already in use")
	case db.UniqueViolationOn(err, "products", "product_code"):
		return pkgerrors.ValidationField("productCode", "already in use")
	case db.UniqueViolationOn(err, "product_variants", "sku"):
		return pkgerrors.ValidationField("variants", "sku already in use")
	case db.UniqueViolationOn(err, "product_combinations", "sku"):
		return pkgerrors.ValidationField("combinations", "sku already in use")
	}
	return db.StorageError(err, op)
}

// generatedConflict reports whether err collided on an identifier this
// service generated, and which counter produced it.
func generatedConflict(err error, generatedSKU bool) (string, bool) {
	if db.UniqueViolationOn(err, "products", "product_code") {
		return sequence.ProductCode, true
	}
	if generatedSKU && db.UniqueViolationOn(err, "products", "sku") {
		return sequence.ProductSKU, true
	}
	return "", false
}

func cloneProduct(p *models.Product) *models.Product {
	cp := *p
	cp.Variants = append([]models.ProductVariant(nil), p.Variants...)
	cp.Combinations = append([]models.ProductCombination(nil), p.Combinations...)
	return &cp
}
