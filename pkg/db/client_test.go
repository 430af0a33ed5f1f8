package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/config"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex:uq_test_models_name"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&testModel{}))
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db, config.DriverSQLite)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t), "")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	assert.Equal(t, config.DriverPostgres, client.Driver())
	assert.False(t, client.IsSQLite())
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{DSN: "x", Driver: "oracle"}, nil)
	require.Error(t, err)

	_, err = New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestNew_OpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file:open_sqlite?mode=memory&cache=shared",
		Driver: config.DriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.True(t, client.IsSQLite())
	require.NoError(t, client.Ping(context.Background()))
}

func TestUniqueViolationDetection(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&testModel{Name: "dup"}).Error)
	err := db.Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, UniqueViolationOn(err, "test_models", "name"))
	assert.False(t, UniqueViolationOn(err, "test_models", "sku"))

	t.Run("pgx error", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23505",
			TableName:      "products",
			ConstraintName: "uq_products_sku",
			Detail:         "Key (sku)=(ABC) already exists.",
		}
		wrapped := fmt.Errorf("insert: %w", pgErr)
		assert.True(t, IsUniqueViolation(wrapped))
		assert.True(t, UniqueViolationOn(wrapped, "products", "sku"))
		assert.False(t, UniqueViolationOn(wrapped, "product_variants", "sku"))
		assert.False(t, UniqueViolationOn(wrapped, "products", "product_code"))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(nil))
		assert.False(t, IsUniqueViolation(errors.New("connection refused")))
		assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	})
}

func TestStorageError(t *testing.T) {
	assert.NoError(t, StorageError(nil, "db: noop"))

	timeout := StorageError(fmt.Errorf("query: %w", context.DeadlineExceeded), "db: list products")
	typed := pkgerrors.As(timeout)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, "storage timeout", typed.Message())

	generic := pkgerrors.As(StorageError(errors.New("broken pipe"), "db: list products"))
	require.NotNil(t, generic)
	assert.Equal(t, "db: list products", generic.Message())

	already := pkgerrors.New(pkgerrors.CodeValidation, "bad")
	assert.Same(t, already, StorageError(already, "db: op"))
}

func TestNotFoundOr(t *testing.T) {
	err := NotFoundOr(gorm.ErrRecordNotFound, "product", "db: find product")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = NotFoundOr(errors.New("io"), "product", "db: find product")
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
