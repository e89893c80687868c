package pipeline

import "strings"

// ColumnNotFound is the sentinel returned when no header matches a field.
// It is not an error: callers fall back to defaults or disable the field.
const ColumnNotFound = -1

// ResolveColumn maps a list of acceptable header names, in priority order,
// to a column index. For each candidate it tries a case-insensitive exact
// match on the trimmed header first, then a case-insensitive substring
// match. Empty headers are skipped. Returns ColumnNotFound when nothing
// matches.
func ResolveColumn(headers []string, names ...string) int {
	for _, name := range names {
		want := strings.ToLower(strings.TrimSpace(name))
		if want == "" {
			continue
		}

		for i, h := range headers {
			if h == "" {
				continue
			}
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return i
			}
		}
		for i, h := range headers {
			if h == "" {
				continue
			}
			if strings.Contains(strings.ToLower(h), want) {
				return i
			}
		}
	}
	return ColumnNotFound
}

// ColumnMap maps logical field names to column positions for one table.
// Built once per table, read-only afterwards.
type ColumnMap map[string]int

// MapColumns resolves every schema field against the header row. Fields
// with no matching header map to ColumnNotFound.
func MapColumns(headers []string, s Schema) ColumnMap {
	m := make(ColumnMap, len(s.Fields))
	for _, f := range s.Fields {
		m[f.Name] = ResolveColumn(headers, f.Headers...)
	}
	return m
}
