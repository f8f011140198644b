package services

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// normalizePage clamps a 1-based page number and page size.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pageCount(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
