// Package pipeline implements the reusable spreadsheet-to-metrics engine
// shared by every dashboard feed. It turns an untyped header-plus-rows grid
// into sorted, paginated aggregate metrics.
//
// # Architecture
//
// The pipeline is a fixed chain of pure stages:
//
//	Table → ResolveColumn/MapColumns → Normalize → Apply (filter) →
//	Aggregate → Derive/Totals → SortBy → Paginate
//
// Each stage reads an immutable snapshot and produces fresh output, so a
// recomputation never mutates previously published results. Feeds differ
// only by configuration: a Schema (field names, header synonyms, coercion
// kinds, additive fields), a Classifier, a KeyFunc and a Ratio set.
//
// # Error Handling
//
// Malformed input is absorbed at the normalization boundary: bad numbers
// coerce to 0, bad dates to "", and a missing column degrades the field to
// its zero value. No stage returns an error; only the transport layer that
// fetches the raw grid can fail.
package pipeline
