package pipeline

import "sort"

// Ratio declares one derived metric: Numerator over Denominator times
// Scale. Derived metrics are always recomputed from summed values, never
// averaged across rows.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
	Scale       float64
}

// StandardRatios returns the usual advertising efficiency set. clickField
// names the billable-click numerator for CPC/CTR, since platforms disagree
// on whether that is "clicks", "link clicks" or "outbound clicks".
func StandardRatios(clickField string) []Ratio {
	return []Ratio{
		{Name: "cpm", Numerator: "cost", Denominator: "impressions", Scale: 1000},
		{Name: "cpc", Numerator: "cost", Denominator: clickField, Scale: 1},
		{Name: "ctr", Numerator: clickField, Denominator: "impressions", Scale: 100},
		{Name: "frequency", Numerator: "impressions", Denominator: "reach", Scale: 1},
		{Name: "vtr", Numerator: "videoViews100", Denominator: "impressions", Scale: 100},
	}
}

// Derive computes each ratio on every record in place of any prior value.
// A zero denominator yields 0, never NaN or Inf.
func Derive(records []Record, ratios []Ratio) {
	for _, r := range records {
		for _, rt := range ratios {
			r[rt.Name] = ratio(r.Num(rt.Numerator), r.Num(rt.Denominator), rt.Scale)
		}
	}
}

// Totals sums the additive fields across the whole (filtered,
// pre-pagination) record set and re-derives the ratio metrics from those
// totals.
func Totals(records []Record, additive []string, ratios []Ratio) Record {
	t := make(Record, len(additive)+len(ratios))
	for _, f := range additive {
		t[f] = 0.0
	}
	for _, r := range records {
		for _, f := range additive {
			t[f] = t.Num(f) + r.Num(f)
		}
	}
	for _, rt := range ratios {
		t[rt.Name] = ratio(t.Num(rt.Numerator), t.Num(rt.Denominator), rt.Scale)
	}
	return t
}

func ratio(num, den, scale float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * scale
}

// SortBy orders records by a numeric field, descending by default, with
// ties kept in input order.
func SortBy(records []Record, field string, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return records[i].Num(field) < records[j].Num(field)
		}
		return records[i].Num(field) > records[j].Num(field)
	})
}
