// Package pagination slices ordered collections into fixed-size pages.
//
// The same 1-indexed formula runs in two places: against in-memory lists
// (search results, formatted question lists) via Page, and pushed down to
// the database as LIMIT/OFFSET via LimitOffset.
package pagination

// Page returns the pageNumber-th slice of items. Page numbers start at 1;
// anything past the end yields an empty slice, not an error.
func Page[T any](items []T, pageNumber, pageSize int) []T {
	if pageNumber < 1 || pageSize < 1 {
		return []T{}
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

// LimitOffset translates the same formula for a storage-side execution site.
func LimitOffset(pageNumber, pageSize int) (limit, offset int64) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	return int64(pageSize), int64((pageNumber - 1) * pageSize)
}
