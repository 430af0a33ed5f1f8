package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDir_Migrations(t *testing.T) {
	count, err := ValidateDir("migrations")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestProductsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_products_sku ON products (sku)",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_products_product_code ON products (product_code)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_id",
		"CREATE INDEX IF NOT EXISTS idx_products_brand_id",
		"product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE",
		"WHERE color <> '' AND size <> ''",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestValidateDir_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{name: "bad filename", file: "001_init.sql", content: "-- +goose Up\n-- +goose Down\n", errPart: "invalid migration filename"},
		{name: "missing down", file: "20260101000000_init.sql", content: "-- +goose Up\n", errPart: "missing \"-- +goose Down\""},
		{name: "down first", file: "20260101000000_init.sql", content: "-- +goose Down\n-- +goose Up\n", errPart: "Down before Up"},
		{
			name:    "unbalanced statements",
			file:    "20260101000000_init.sql",
			content: "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n",
			errPart: "StatementBegin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o644))
			_, err := ValidateDir(dir)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errPart), err.Error())
		})
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Coupons Table!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_coupons_table.sql"), path)

	count, err := ValidateDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path, err := createAt(dir, "products add barcode", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260301120000_products_add_barcode.sql"), path)

	_, err = createAt(dir, "products add barcode", at)
	assert.Error(t, err)
}
