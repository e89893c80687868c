package pipeline

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one normalized, typed row: logical field name to string,
// float64 or ISO date string. Records are immutable once produced.
type Record map[string]any

// Str returns the string value of a field, or "".
func (r Record) Str(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Num returns the numeric value of a field, or 0.
func (r Record) Num(name string) float64 {
	if v, ok := r[name].(float64); ok {
		return v
	}
	return 0
}

// clone copies a record so aggregation never mutates published results.
func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// numberStrip removes currency symbols, percent signs and whitespace
// before numeric parsing.
var numberStrip = strings.NewReplacer("R$", "", "$", "", "%", "", " ", "", " ", "", "\t", "")

// ParseNumber parses a locale-formatted decimal. Accepts plain floats,
// currency values ("R$ 1.234,56") and percents ("1,25%"). When the value
// carries a decimal comma, dots are treated as thousands separators and
// removed. Unparseable input yields 0, never an error or NaN.
func ParseNumber(raw string) float64 {
	s := numberStrip.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseInt parses a locale-formatted integer. Dots are always thousands
// separators for integer fields, and a decimal-comma tail is truncated.
// Unparseable input yields 0.
func ParseInt(raw string) int64 {
	s := numberStrip.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ".", "")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeDate converts a cell to a canonical YYYY-MM-DD string.
// A "/"-separated triple is always read as DD/MM/YYYY (all feeds are
// pt-BR; see the feed notes before pointing a US-style source at this).
// "-"-separated triples are read as YYYY-MM-DD. Anything else goes
// through the generic layouts below. Unparseable input yields "".
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
			m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
			if errD == nil && errM == nil && errY == nil {
				t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
				// time.Date normalizes overflow (32/01 -> 01/02); reject that.
				if t.Day() == d && int(t.Month()) == m && t.Year() == y {
					return t.Format("2006-01-02")
				}
			}
		}
		return ""
	}

	if isoDateRe.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s
		}
		return ""
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "Jan 2, 2006", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Normalize converts every data row of a table into a typed Record using
// the schema's column resolution and coercion rules. Rows whose key field
// is empty after trimming are dropped. Parsing never fails: bad numbers
// become 0 and bad dates become "".
func Normalize(t Table, s Schema) []Record {
	cols := MapColumns(t.Headers, s)

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record, len(s.Fields))
		for _, f := range s.Fields {
			idx := cols[f.Name]
			raw := ""
			if idx != ColumnNotFound {
				raw = CellString(cellAt(row, idx))
			}

			switch f.Kind {
			case KindNumber:
				rec[f.Name] = ParseNumber(raw)
			case KindInt:
				rec[f.Name] = float64(ParseInt(raw))
			case KindDate:
				rec[f.Name] = NormalizeDate(raw)
			default:
				rec[f.Name] = strings.TrimSpace(raw)
			}
		}

		if s.Key != "" && rec.Str(s.Key) == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// DateBounds returns the earliest and latest normalized dates present in
// the records, for filter-control population. Records without a parseable
// date are ignored. Returns zero values when no record has a date.
func DateBounds(records []Record, dateField string) (start, end string) {
	for _, r := range records {
		d := r.Str(dateField)
		if d == "" {
			continue
		}
		if start == "" || d < start {
			start = d
		}
		if end == "" || d > end {
			end = d
		}
	}
	return start, end
}
