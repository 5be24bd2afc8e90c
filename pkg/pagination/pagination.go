// Package pagination windows ordered collections by page or by limit/offset.
// Every function is pure and never fails: out-of-range input is clamped.
package pagination

import "strconv"

// DefaultPerPage is used when a caller passes a non-positive page size.
const DefaultPerPage = 20

// PageWindow describes one page of an ordered collection.
type PageWindow struct {
	Page    int  `json:"page"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasPrev bool `json:"hasPrev"`
	HasNext bool `json:"hasNext"`
}

// Window computes the window for a zero-based page. Negative pages clamp to zero;
// the offset is always page*perPage.
func Window(page, perPage, total int) PageWindow {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 0 {
		page = 0
	}
	if total < 0 {
		total = 0
	}
	return PageWindow{
		Page:    page,
		Offset:  page * perPage,
		Limit:   perPage,
		Total:   total,
		HasPrev: page > 0,
		HasNext: total-(page+1)*perPage > 0,
	}
}

// LastPage returns the highest valid zero-based page for total items.
func LastPage(perPage, total int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 0
	}
	return (total - 1) / perPage
}

// Navigate moves delta pages from page and clamps the result to [0, LastPage].
func Navigate(page, delta, perPage, total int) PageWindow {
	target := page + delta
	if last := LastPage(perPage, total); target > last {
		target = last
	}
	return Window(target, perPage, total)
}

// FromOffset builds the window that contains offset. Offsets that are not a multiple of
// limit keep their exact value so the store returns the rows the caller asked for.
func FromOffset(offset, limit, total int) PageWindow {
	if limit <= 0 {
		limit = DefaultPerPage
	}
	if offset < 0 {
		offset = 0
	}
	w := Window(offset/limit, limit, total)
	w.Offset = offset
	w.HasPrev = offset > 0
	w.HasNext = total-(offset+limit) > 0
	return w
}

// Params is a normalised limit/offset pair taken from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery parses raw limit and offset query values. Missing or malformed limits fall back
// to defaultLimit, limits above maxLimit are capped, negative offsets become zero.
func FromQuery(rawLimit, rawOffset string, defaultLimit, maxLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPerPage
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	offset, err := strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}
