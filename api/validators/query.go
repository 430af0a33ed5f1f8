package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/pagination"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.ValidationField(key, "must be numeric")
	}
	if value < min || value > max {
		return 0, pkgerrors.ValidationField(key, "out of range "+strconv.Itoa(min)+".."+strconv.Itoa(max))
	}
	return value, nil
}

// ParsePagination reads page and limit. Zero values are left for the service
// to default.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	fields := pkgerrors.FieldErrors{}
	page, err := ParseQueryInt(r, "page", 0, 1, 1_000_000)
	if err != nil {
		fields.Add("page", "must be a positive integer")
	}
	limit, err := ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		fields.Add("limit", "must be between 1 and "+strconv.Itoa(pagination.MaxLimit))
	}
	if err := fields.Err(); err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.ValidationField(key, "must be a valid id")
	}
	return &id, nil
}

func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.ValidationField(key, "must be a number")
	}
	return &d, nil
}

func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.ValidationField(key, "must be true or false")
	}
	return &b, nil
}

// ParseURLParamUUID reads a chi route parameter as an id. Malformed ids are
// reported as not found, the same as ids that do not exist.
func ParseURLParamUUID(r *http.Request, key, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, pkgerrors.NotFound(entity)
	}
	return id, nil
}
