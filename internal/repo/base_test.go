package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/internal/repo/repotest"
	"github.com/mohib357/mamstar-plan/pkg/db/models"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

func TestBaseDB_BindsContext(t *testing.T) {
	db := repotest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	//nolint:staticcheck // nil context returns the raw handle
	assert.Same(t, db, base.DB(nil))
}

func seedCategories(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for i, name := range names {
		c := models.Category{Name: name, Slug: name, IsActive: true, SortOrder: i}
		require.NoError(t, db.Create(&c).Error)
	}
}

func TestSearchFoldMatchesCaseInsensitively(t *testing.T) {
	db := repotest.Open(t)
	seedCategories(t, db, "Shoes", "Shirts", "Hats", "100%_cotton")

	var names []string
	err := SearchFold(db.Model(&models.Category{}), "SH", "name").Order("name").Pluck("name", &names).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirts", "Shoes"}, names)

	names = nil
	err = SearchFold(db.Model(&models.Category{}), "%_", "name").Pluck("name", &names).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_cotton"}, names)

	var count int64
	require.NoError(t, SearchFold(db.Model(&models.Category{}), "   ", "name").Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestPageAppliesLimitAndOffset(t *testing.T) {
	db := repotest.Open(t)
	seedCategories(t, db, "a", "b", "c", "d", "e")

	var names []string
	p := pagination.Params{Page: 2, Limit: 2}
	err := Page(db.Model(&models.Category{}).Order("name"), p).Pluck("name", &names).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, names)
}
