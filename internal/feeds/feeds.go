// Package feeds declares the dashboard's data feeds: for each sheet range
// the schema (field synonyms and coercions), grouping key, category
// classifier and derived-metric set that parameterize the shared pipeline,
// plus the feed-specific business rules that do not generalize (event
// count reconstruction, traffic summarization, benchmark comparison).
package feeds

import (
	"strings"

	"adpulse/internal/pipeline"
)

// Feed binds one sheet range to its pipeline configuration.
type Feed struct {
	// Name identifies the feed in config, URLs and logs.
	Name string
	// Range is the default sheet range, overridable per deployment.
	Range string
	// Schema drives column resolution and row normalization.
	Schema pipeline.Schema
	// Key derives the aggregation group key.
	Key pipeline.KeyFunc
	// Classify derives the record's category for filtering; nil when the
	// feed has no categories.
	Classify pipeline.Classifier
	// Ratios is the derived-metric set; nil for feeds that only count.
	Ratios []pipeline.Ratio
	// PageSize is the default page size of the feed's table view.
	PageSize int
}

// Registry returns all known feeds keyed by name.
func Registry() map[string]Feed {
	return map[string]Feed{
		"pinterest":    Pinterest(),
		"meta":         Meta(),
		"googlesearch": GoogleSearch(),
		"events":       Events(),
		"ga4":          GA4(),
		"benchmark":    Benchmarks(),
	}
}

// DetectModality sniffs the insurance modality from a creative or campaign
// name. Matching is case-insensitive substring; names carrying none of the
// known modalities are unclassified.
func DetectModality(name string) string {
	lower := strings.ToLower(name)
	for _, m := range []string{"empresarial", "residencial", "vida"} {
		if strings.Contains(lower, m) {
			return m
		}
	}
	return ""
}

// ModalityClassifier classifies records by sniffing the given field.
func ModalityClassifier(field string) pipeline.Classifier {
	return func(r pipeline.Record) string {
		return DetectModality(r.Str(field))
	}
}

// ColumnClassifier classifies records by the literal value of a column
// (used by feeds that carry an explicit Modalidade column).
func ColumnClassifier(field string) pipeline.Classifier {
	return func(r pipeline.Record) string {
		return r.Str(field)
	}
}
