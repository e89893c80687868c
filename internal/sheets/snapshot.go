package sheets

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"adpulse/internal/pipeline"
)

// Snapshot is a read-only copy of the workbook loaded from a local xlsx
// export. Sheet names stand in for range names. It backs the cache when
// the proxy is unreachable before the first successful fetch.
type Snapshot struct {
	tables map[string]pipeline.Table
}

// LoadSnapshot reads every sheet of an xlsx export into memory.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	snap := &Snapshot{tables: make(map[string]pipeline.Table)}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read snapshot sheet %s: %w", sheet, err)
		}
		values := make([][]pipeline.Cell, len(rows))
		for i, row := range rows {
			cells := make([]pipeline.Cell, len(row))
			for j, v := range row {
				cells[j] = v
			}
			values[i] = cells
		}
		snap.tables[sheet] = pipeline.TableFromValues(values)
	}
	return snap, nil
}

// Lookup returns the snapshot table for a range name, when present.
func (s *Snapshot) Lookup(rangeName string) (pipeline.Table, bool) {
	t, ok := s.tables[rangeName]
	return t, ok
}

// Ranges lists the range names present in the snapshot.
func (s *Snapshot) Ranges() []string {
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	return out
}
