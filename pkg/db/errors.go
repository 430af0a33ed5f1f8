package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation on
// postgres (pgx or lib/pq) or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// UniqueViolationOn narrows IsUniqueViolation to a table column. Composite
// constraints match on any of their columns.
func UniqueViolationOn(err error, table, column string) bool {
	if !IsUniqueViolation(err) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgMatches(pgErr.TableName, pgErr.ConstraintName, pgErr.Detail, table, column)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgMatches(pqErr.Table, pqErr.Constraint, pqErr.Detail, table, column)
	}

	msg := err.Error()
	// sqlite: "UNIQUE constraint failed: products.sku"
	if strings.Contains(msg, table+"."+column) {
		return true
	}
	// postgres text: `duplicate key value violates unique constraint "uq_products_sku"`
	return strings.Contains(msg, table+"_"+column)
}

func pgMatches(errTable, constraint, detail, table, column string) bool {
	if errTable != "" && errTable != table {
		return false
	}
	if strings.Contains(detail, column) {
		return true
	}
	return strings.Contains(constraint, table+"_"+column)
}

func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}

// StorageError wraps a persistence failure as a dependency error. Deadline
// expiry is reported as a storage timeout.
func StorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if IsTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage timeout")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

// NotFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND error for entity and
// anything else to a storage error.
func NotFoundOr(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(entity)
	}
	return StorageError(err, op)
}
