package pagination

import (
	"strconv"
	"strings"
)

// MaxPerPage caps how many rows a single page can request.
const MaxPerPage = 100

// Params holds page-number pagination inputs.
type Params struct {
	Page    int
	PerPage int
}

// Parse reads the raw page and per_page query values. ok is false unless both
// parse as positive integers, in which case callers return the full collection.
func Parse(page, perPage string) (Params, bool) {
	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || p <= 0 {
		return Params{}, false
	}
	pp, err := strconv.Atoi(strings.TrimSpace(perPage))
	if err != nil || pp <= 0 {
		return Params{}, false
	}
	if pp > MaxPerPage {
		pp = MaxPerPage
	}
	return Params{Page: p, PerPage: pp}, true
}

// Offset returns the number of rows preceding the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Limit returns the page size.
func (p Params) Limit() int {
	return p.PerPage
}
