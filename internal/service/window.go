package service

import "github.com/noah-isme/campus-hub-api/pkg/pagination"

// fetchWindow loads the window at limit/offset. When offset runs past the end of a
// non-empty collection the last page is loaded instead, so a stale link never lands on
// an empty page.
func fetchWindow[T any](limit, offset int, fetch func(limit, offset int) ([]T, int, error)) ([]T, int, error) {
	items, total, err := fetch(limit, offset)
	if err != nil || len(items) > 0 || total == 0 {
		return items, total, err
	}
	w := pagination.FromOffset(offset, limit, total)
	if w.Offset < total {
		return items, total, nil
	}
	last := pagination.Navigate(w.Page, 0, w.Limit, total)
	return fetch(last.Limit, last.Offset)
}
