// Package listview implements the list-shaping transforms shared by the
// catalog and invoice history views: case-insensitive text filtering,
// single-key two-direction sorting, and fixed-size page windows.
package listview

import (
	"sort"
	"strings"
)

// MatchText reports whether the query is a case-insensitive substring of
// any of the given fields. An empty query matches everything.
func MatchText(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Filter returns the items for which keep returns true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortState is a single sortable column plus direction.
type SortState struct {
	Key  string
	Desc bool
}

// Toggle returns the state after a request to sort by key: the same key
// flips direction, a new key resets to ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		return SortState{Key: key, Desc: !s.Desc}
	}
	return SortState{Key: key}
}

// Sort orders items in place by the given less function, descending when
// the state says so. The sort is stable, so ties keep their prior order.
func Sort[T any](items []T, state SortState, less func(a, b T) bool) {
	if state.Desc {
		sort.SliceStable(items, func(i, j int) bool { return less(items[j], items[i]) })
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// PageInfo describes one page window over a filtered result set.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices out a 1-indexed page of the given size. Pages below 1
// are treated as page 1; a page past the end yields an empty slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageInfo) {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	info := PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, info
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], info
}
