package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain integer", "1000", 1000},
		{"plain float", "10.5", 10.5},
		{"decimal comma", "100,50", 100.50},
		{"thousands dot with decimal comma", "1.234,56", 1234.56},
		{"currency prefix", "R$ 1.234,56", 1234.56},
		{"percent suffix", "1,25%", 1.25},
		{"whitespace", "  42  ", 42},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"garbage", "n/a", 0},
		{"lone comma", ",", 0},
		{"negative currency", "R$ -10,00", -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"plain", "1000", 1000},
		{"thousands dot", "1.234", 1234},
		{"decimal truncated", "10,9", 10},
		{"garbage", "abc", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.raw))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"slash triple is day month year", "15/01/2025", "2025-01-15"},
		{"slash without zero padding", "5/1/2025", "2025-01-05"},
		{"already canonical", "2025-01-15", "2025-01-15"},
		{"rfc3339", "2025-01-15T00:00:00Z", "2025-01-15"},
		{"impossible slash date", "32/01/2025", ""},
		{"impossible iso date", "2025-13-40", ""},
		{"garbage", "yesterday", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.raw))
		})
	}
}

func creativeSchema() Schema {
	return Schema{
		Key:  "adName",
		Date: "date",
		Fields: []Field{
			{Name: "date", Headers: []string{"Date", "Data", "Day"}, Kind: KindDate},
			{Name: "campaignName", Headers: []string{"Campaign name", "Campaign"}, Kind: KindString},
			{Name: "adName", Headers: []string{"Ad name", "Creative title"}, Kind: KindString},
			{Name: "impressions", Headers: []string{"Impressions", "Impr."}, Kind: KindInt},
			{Name: "clicks", Headers: []string{"Clicks", "Link clicks"}, Kind: KindInt},
			{Name: "cost", Headers: []string{"Total spent", "Spend", "Cost"}, Kind: KindNumber},
		},
		Additive: []string{"impressions", "clicks", "cost"},
	}
}

func TestNormalize(t *testing.T) {
	table := TableFromValues([][]Cell{
		{"Date", "Campaign name", "Ad group name", "Ad name", "Video URL", "Impressions", "Clicks", "Cost"},
		{"15/01/2025", "Campaign A", "Group A", "Ad 1", "", "1000", "50", "100,50"},
		{"16/01/2025", "Campaign A", "Group A", "   ", "", "500", "10", "20,00"},
		{"17/01/2025", "Campaign B", "Group B", "Ad 2", "", "abc", "", "R$ 1.000,00"},
	})

	records := Normalize(table, creativeSchema())
	require.Len(t, records, 2, "row with empty key field must be dropped")

	assert.Equal(t, "2025-01-15", records[0].Str("date"))
	assert.Equal(t, "Campaign A", records[0].Str("campaignName"))
	assert.Equal(t, float64(1000), records[0].Num("impressions"))
	assert.Equal(t, float64(50), records[0].Num("clicks"))
	assert.Equal(t, 100.50, records[0].Num("cost"))

	assert.Equal(t, float64(0), records[1].Num("impressions"), "unparseable count coerces to 0")
	assert.Equal(t, float64(0), records[1].Num("clicks"), "missing cell coerces to 0")
	assert.Equal(t, float64(1000), records[1].Num("cost"))
}

func TestNormalizeNumericCells(t *testing.T) {
	// The proxy sometimes delivers cells as JSON numbers rather than strings.
	table := TableFromValues([][]Cell{
		{"Date", "Ad name", "Impressions", "Cost"},
		{"2025-02-01", "Ad 1", float64(1200), 33.5},
	})

	records := Normalize(table, creativeSchema())
	require.Len(t, records, 1)
	assert.Equal(t, float64(1200), records[0].Num("impressions"))
	assert.Equal(t, 33.5, records[0].Num("cost"))
}

func TestNormalizeMissingColumnDegrades(t *testing.T) {
	table := TableFromValues([][]Cell{
		{"Ad name", "Clicks"},
		{"Ad 1", "7"},
	})

	records := Normalize(table, creativeSchema())
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Str("date"))
	assert.Equal(t, float64(0), records[0].Num("cost"))
	assert.Equal(t, float64(7), records[0].Num("clicks"))
}

func TestNormalizeIdempotent(t *testing.T) {
	table := TableFromValues([][]Cell{
		{"Date", "Ad name", "Impressions", "Clicks", "Cost"},
		{"15/01/2025", "Ad 1", "1000", "50", "100,50"},
		{"16/01/2025", "Ad 2", "2000", "80", "200,00"},
	})

	first := Normalize(table, creativeSchema())
	second := Normalize(table, creativeSchema())
	assert.Equal(t, first, second)
}

func TestDateBounds(t *testing.T) {
	records := []Record{
		{"date": "2025-01-20"},
		{"date": "2025-01-05"},
		{"date": ""},
		{"date": "2025-02-01"},
	}

	start, end := DateBounds(records, "date")
	assert.Equal(t, "2025-01-05", start)
	assert.Equal(t, "2025-02-01", end)

	start, end = DateBounds(nil, "date")
	assert.Empty(t, start)
	assert.Empty(t, end)
}

func TestDecodeTable(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantRows int
		wantHdr  []string
	}{
		{
			name:     "flat values",
			body:     `{"values":[["Date","Clicks"],["2025-01-01","3"]]}`,
			wantRows: 1,
			wantHdr:  []string{"Date", "Clicks"},
		},
		{
			name:     "nested under data",
			body:     `{"data":{"values":[["Date","Clicks"],["2025-01-01","3"],["2025-01-02",4]]}}`,
			wantRows: 2,
			wantHdr:  []string{"Date", "Clicks"},
		},
		{
			name:     "empty response",
			body:     `{}`,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := DecodeTable([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, table.Rows, tt.wantRows)
			assert.Equal(t, tt.wantHdr, table.Headers)
		})
	}

	_, err := DecodeTable([]byte("not json"))
	assert.Error(t, err)
}
