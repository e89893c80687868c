package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Cell is a single spreadsheet cell as delivered by the sheets proxy.
// Cells arrive as strings, JSON numbers, or nulls depending on the feed.
type Cell = any

// Table is the uniform view over one sheet range: a header row followed by
// data rows. Tables are treated as immutable once built.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// valuesEnvelope matches the two response shapes the proxy produces:
// {"values": [...]} and {"data": {"values": [...]}}.
type valuesEnvelope struct {
	Values [][]Cell `json:"values"`
	Data   *struct {
		Values [][]Cell `json:"values"`
	} `json:"data"`
}

// DecodeTable parses a sheets proxy JSON response into a Table,
// tolerating the optional one-level "data" nesting.
func DecodeTable(body []byte) (Table, error) {
	var env valuesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Table{}, fmt.Errorf("decode sheet response: %w", err)
	}

	values := env.Values
	if len(values) == 0 && env.Data != nil {
		values = env.Data.Values
	}
	return TableFromValues(values), nil
}

// TableFromValues builds a Table from a raw values grid. The first row is
// the header row; an empty grid yields an empty table.
func TableFromValues(values [][]Cell) Table {
	if len(values) == 0 {
		return Table{}
	}

	headers := make([]string, len(values[0]))
	for i, c := range values[0] {
		headers[i] = strings.TrimSpace(CellString(c))
	}

	return Table{
		Headers: headers,
		Rows:    values[1:],
	}
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// CellString renders a cell as a string. Numeric cells keep their shortest
// decimal representation; nil cells become "".
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// cellAt returns the cell at index i, or nil when the row is ragged and
// shorter than the header row.
func cellAt(row []Cell, i int) Cell {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
