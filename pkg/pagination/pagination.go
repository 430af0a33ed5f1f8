package pagination

import "math"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from controllers or services. Pages are 1-based.
type Params struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit. fallback replaces DefaultLimit when positive.
func (p Params) Normalize(fallback int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if fallback <= 0 {
		fallback = DefaultLimit
	}
	if p.Limit <= 0 {
		p.Limit = fallback
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows to skip for the current page.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit), zero when there is nothing to page.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Meta is the paging summary returned alongside list results.
type Meta struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func NewMeta(total int64, p Params) Meta {
	return Meta{
		Total:       total,
		TotalPages:  TotalPages(total, p.Limit),
		CurrentPage: p.Page,
	}
}
