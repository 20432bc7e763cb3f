// Package utils provides small helpers shared across layers, currently the
// paging primitives used by the ticket listing endpoint.
package utils

import "strconv"

// AtoiDefault parses the paging query parameters ("page", "page_size"). An
// empty or unparseable value yields def, so a request like
// ?page=abc degrades to the first page instead of erroring.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageBounds converts a 1-based page and a page size into [start, end)
// slice bounds over a list of total items. pageSize <= 0 means no paging
// (the whole list); a page past the end yields an empty window.
func PageBounds(total, page, pageSize int) (start, end int) {
	if pageSize <= 0 {
		return 0, total
	}
	if page < 1 {
		page = 1
	}
	start = (page - 1) * pageSize
	if start >= total {
		return total, total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
