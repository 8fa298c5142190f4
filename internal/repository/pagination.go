package repository

import (
	"errors"
	"math"
)

// ErrInvalidPage is returned by PageFor when the page number or size is not positive.
var ErrInvalidPage = errors.New("invalid page window")

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; advanced filtering belongs to higher layers.
type Page struct {
	Limit  int
	Offset int
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T
	Total int64
}

// PageFor translates a 1-based page number and a page size into a limit/offset window.
// A window whose offset does not fit in an int starts at math.MaxInt, which is
// past the end of any store, so it reads as an empty page instead of wrapping.
func PageFor(page, size int) (Page, error) {
	if page < 1 || size < 1 {
		return Page{}, ErrInvalidPage
	}
	if page-1 > math.MaxInt/size {
		return Page{Limit: size, Offset: math.MaxInt}, nil
	}
	return Page{Limit: size, Offset: (page - 1) * size}, nil
}

// DefaultPageLimit applies when a caller passes a non-positive limit.
const DefaultPageLimit = 100

// Sanitized clamps a window to something every backend can execute.
func (p Page) Sanitized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
