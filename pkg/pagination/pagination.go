// Package pagination reads page/limit query parameters for list endpoints and
// describes the resulting page in the response envelope.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	// MaxLimit matches the per-owner pet cap, so one page can always hold
	// an owner's whole list.
	MaxLimit = 50
)

// Params is a 1-based page of at most Limit items.
type Params struct {
	Page  int
	Limit int
}

// Page describes a list response.
type Page struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// Extract reads ?page= and ?limit=. Missing, malformed or non-positive values
// fall back to the first page of DefaultLimit; limits above MaxLimit are capped.
func Extract(c *gin.Context) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		p.Limit = min(limit, MaxLimit)
	}
	return p
}

// Offset is the number of items before the page.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Bounds returns the [start, end) slice indexes of the page within n items.
func (p Params) Bounds(n int) (int, int) {
	start := min(p.Offset(), n)
	return start, min(start+p.Limit, n)
}

// MetadataFrom describes params as a page of total items.
func MetadataFrom(total int64, p Params) Page {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page{
		Total:   total,
		Page:    p.Page,
		Limit:   p.Limit,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
