package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Page applies limit/offset for the normalized params.
func Page(q *gorm.DB, p pagination.Params) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if offset := p.Offset(); offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

// SearchFold adds a case-insensitive substring match of term over columns,
// OR-ed together. A blank term leaves q untouched.
func SearchFold(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
