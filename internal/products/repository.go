package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mohib357/mamstar-plan/internal/repo"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

// Repository persists products and their variant/combination rows.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail loads the product with its references and ordered entries.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withDetail(r.DB(ctx)).First(&product, "products.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindMany returns one page of products matching filter, newest first.
func (r *Repository) FindMany(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, error) {
	q := applyFilter(r.DB(ctx).Model(&models.Product{}), filter).
		Order("created_at DESC").
		Order("product_code DESC")
	var products []models.Product
	if err := repo.Page(withDetail(q), page).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountMatching counts products matching filter.
func (r *Repository) CountMatching(ctx context.Context, filter ListFilter) (int64, error) {
	var total int64
	err := applyFilter(r.DB(ctx).Model(&models.Product{}), filter).Count(&total).Error
	return total, err
}

// Create inserts the product together with its variants and combinations.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit("Category", "SubCategory", "Brand").Create(product).Error
}

// Update saves every column of the product. Entries are left alone; use
// ReplaceVariants and ReplaceCombinations for those.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit(clause.Associations).Save(product).Error
}

// SetActive flips the soft-delete flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", active).Error
}

// ReplaceVariants swaps the stored variants for entries.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, entries []models.ProductVariant) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].ID = uuid.Nil
		entries[i].ProductID = productID
	}
	return tx.Create(&entries).Error
}

// ReplaceCombinations swaps the stored combinations for entries.
func (r *Repository) ReplaceCombinations(ctx context.Context, productID uuid.UUID, entries []models.ProductCombination) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCombination{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].ID = uuid.Nil
		entries[i].ProductID = productID
	}
	return tx.Create(&entries).Error
}

// IdentifierTaken reports whether a product already uses value in column,
// which must be product_code or sku.
func (r *Repository) IdentifierTaken(ctx context.Context, column, value string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Count(&n).Error
	return n > 0, err
}

// CategoryExists reports whether a category with id exists.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// BrandExists reports whether a brand with id exists.
func (r *Repository) BrandExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func withDetail(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Category").
		Preload("SubCategory").
		Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Combinations", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	q = repo.SearchFold(q, f.Search, "name", "sku", "description")
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.BrandID != nil {
		q = q.Where("brand_id = ?", *f.BrandID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.LowStock != nil {
		q = q.Where("low_stock = ?", *f.LowStock)
	}
	if f.OutOfStock != nil {
		if *f.OutOfStock {
			q = q.Where("total_stock <= 0")
		} else {
			q = q.Where("total_stock > 0")
		}
	}
	return q
}
