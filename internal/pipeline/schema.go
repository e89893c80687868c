package pipeline

// Kind selects the coercion applied to a field at the normalization
// boundary.
type Kind int

const (
	// KindString trims the raw cell value.
	KindString Kind = iota
	// KindNumber parses a locale-formatted decimal (currency and percent
	// symbols stripped, thousands-dot / decimal-comma accepted).
	KindNumber
	// KindInt parses a locale-formatted integer.
	KindInt
	// KindDate normalizes to a canonical YYYY-MM-DD string, or "" when
	// the cell is unparseable.
	KindDate
)

// Field declares one logical field of a feed: its canonical name, the
// header names that may carry it (in priority order, PT and EN variants),
// and how to coerce it.
type Field struct {
	Name    string
	Headers []string
	Kind    Kind
}

// Schema describes how one feed's rows become typed Records.
//
// Key names the identity field: rows whose key is empty after trimming are
// dropped. Date names the field used for range filtering. Additive lists
// the fields that are valid to sum across rows; everything else is
// representative metadata carried from the first record of a group.
type Schema struct {
	Key      string
	Date     string
	Fields   []Field
	Additive []string
}

// Field returns the declaration for a logical field name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
