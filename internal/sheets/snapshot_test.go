package sheets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSnapshotFile(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Pinterest_tratado"))
	require.NoError(t, f.SetSheetRow("Pinterest_tratado", "A1", &[]any{"Ad name", "Clicks"}))
	require.NoError(t, f.SetSheetRow("Pinterest_tratado", "A2", &[]any{"video_a", 10}))

	_, err := f.NewSheet("Benchmark")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Benchmark", "A1", &[]any{"Veículo", "CPM"}))

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	snap, err := LoadSnapshot(writeSnapshotFile(t))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Pinterest_tratado", "Benchmark"}, snap.Ranges())

	table, ok := snap.Lookup("Pinterest_tratado")
	require.True(t, ok)
	assert.Equal(t, []string{"Ad name", "Clicks"}, table.Headers)
	require.Len(t, table.Rows, 1)

	_, ok = snap.Lookup("GA4_trafego")
	assert.False(t, ok)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
