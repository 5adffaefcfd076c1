package table

// Pagination is the page cursor over the filtered rows.
type Pagination struct {
	CurrentPage int
	RowsPerPage int
	Enabled     bool
}

// DefaultRowsPerPage applies when no positive page size is configured.
const DefaultRowsPerPage = 10

// TotalPages is ceil(count/perPage), never less than 1: an empty result is
// "page 1 of 1".
func TotalPages(count, perPage int) int {
	if perPage < 1 {
		perPage = DefaultRowsPerPage
	}
	pages := (count + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage keeps page within [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the rows of one page and the offset of its first row.
// The page is clamped to the valid range first.
func Paginate[T any](rows []T, page, perPage int) ([]T, int) {
	if perPage < 1 {
		perPage = DefaultRowsPerPage
	}
	page = ClampPage(page, TotalPages(len(rows), perPage))
	start := (page - 1) * perPage
	if start >= len(rows) {
		return []T{}, start
	}
	end := min(start+perPage, len(rows))
	return rows[start:end:end], start
}
