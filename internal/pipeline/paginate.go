package pipeline

// Paginate returns the 1-indexed page of the record set. Out-of-range
// pages yield an empty slice; no clamping, no error.
func Paginate(records []Record, page, pageSize int) []Record {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages reports how many pages the record set spans. An empty set
// reports 1 so pagination controls always have a current page to show.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 || count <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	return pages
}
