package pipeline

// Filter holds the user-controlled predicates applied before aggregation.
// Start and End are inclusive ISO dates; when either is empty, date
// filtering is skipped. Categories is the selected category set; empty
// means no category filter, not "exclude all".
type Filter struct {
	Start      string
	End        string
	Categories []string
}

// Classifier derives the category of a record (for example, the insurance
// modality sniffed from a creative name). Returning "" means the record
// has no category.
type Classifier func(Record) string

// Apply filters records by date range and category.
//
// Date bounds are inclusive on both ends; dates are compared as canonical
// YYYY-MM-DD strings, so time-of-day never participates. A record whose
// date failed to normalize passes rather than being hidden by a parse
// failure. The classifier may be nil when the feed has no categories.
func Apply(records []Record, f Filter, dateField string, classify Classifier) []Record {
	byDate := f.Start != "" && f.End != ""
	byCategory := len(f.Categories) > 0 && classify != nil

	if !byDate && !byCategory {
		return records
	}

	selected := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		selected[c] = true
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if byDate {
			if d := r.Str(dateField); d != "" && (d < f.Start || d > f.End) {
				continue
			}
		}
		if byCategory && !selected[classify(r)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Categories collects the distinct non-empty categories present in the
// records, sorted, for filter-control population.
func Categories(records []Record, classify Classifier) []string {
	if classify == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		c := classify(r)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sortStrings(out)
	return out
}
