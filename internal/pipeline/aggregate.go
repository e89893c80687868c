package pipeline

import "sort"

// KeyFunc derives the group key of a record. The common case is the
// identity field alone; feeds with duplicate-name tolerance compose it
// with a secondary id.
type KeyFunc func(Record) string

// KeyField returns a KeyFunc grouping on a single field, matched
// case-sensitively.
func KeyField(name string) KeyFunc {
	return func(r Record) string { return r.Str(name) }
}

// Aggregate groups records by keyFn and sums the schema's additive fields
// exactly, with no rounding. Non-additive fields keep the first-seen
// record's values as representative metadata. Records with an empty group
// key are dropped. Output order follows first appearance of each key;
// callers sort explicitly.
func Aggregate(records []Record, s Schema, keyFn KeyFunc) []Record {
	groups := make(map[string]Record, len(records))
	var order []string

	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			groups[key] = r.clone()
			order = append(order, key)
			continue
		}
		for _, f := range s.Additive {
			g[f] = g.Num(f) + r.Num(f)
		}
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

func sortStrings(s []string) {
	sort.Strings(s)
}
