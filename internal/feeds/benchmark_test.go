package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/pipeline"
)

func TestBenchmarkKey(t *testing.T) {
	assert.Equal(t, "PINTEREST_residencial", BenchmarkKey(" pinterest ", "Residencial"))
	assert.Equal(t, "META_vida", BenchmarkKey("Meta", "VIDA"))
}

func TestParseBenchmarks(t *testing.T) {
	records := []pipeline.Record{
		{
			"vehicle": "Pinterest", "modality": "Residencial",
			"impressions": 100000.0, "clicks": 2000.0, "cost": 1500.0,
			"cpm": 15.0, "cpc": 0.75, "ctr": 2.0, "vtr": 0.0, "completionRate": 0.0,
		},
		{
			"vehicle": "", "modality": "vida",
			"impressions": 1.0, "clicks": 1.0, "cost": 1.0,
		},
	}

	out := ParseBenchmarks(records)

	require.Len(t, out, 1, "rows without a vehicle are skipped")
	b, ok := out["PINTEREST_residencial"]
	require.True(t, ok)
	assert.Equal(t, "Pinterest", b.Vehicle)
	assert.Equal(t, "residencial", b.Modality)
	assert.Equal(t, 1500.0, b.Cost)
	assert.Equal(t, 2.0, b.CTR)
}

func TestParseBenchmarks_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		rec  pipeline.Record
		want float64
	}{
		{
			name: "from cpm over impressions",
			rec: pipeline.Record{
				"vehicle": "Meta", "modality": "vida",
				"impressions": 200000.0, "cpm": 12.5,
			},
			want: 2500.0,
		},
		{
			name: "from cpc over clicks when cpm is absent",
			rec: pipeline.Record{
				"vehicle": "GoogleSearch", "modality": "residencial",
				"clicks": 800.0, "cpc": 1.25,
			},
			want: 1000.0,
		},
		{
			name: "stays zero with nothing to derive from",
			rec: pipeline.Record{
				"vehicle": "TikTok", "modality": "vida",
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseBenchmarks([]pipeline.Record{tt.rec})
			require.Len(t, out, 1)
			for _, b := range out {
				assert.InDelta(t, tt.want, b.Cost, 1e-9)
			}
		})
	}
}

func TestCompareVariation(t *testing.T) {
	tests := []struct {
		name          string
		actual, ref   float64
		lowerIsBetter bool
		wantDelta     float64
		wantBetter    bool
		wantKnown     bool
	}{
		{"cost under reference improves", 8.0, 10.0, true, -20, true, true},
		{"cost over reference worsens", 12.0, 10.0, true, 20, false, true},
		{"performance over reference improves", 2.4, 2.0, false, 20, true, true},
		{"performance under reference worsens", 1.5, 2.0, false, -25, false, true},
		{"zero reference is unknown", 5.0, 0, false, 0, false, false},
		{"negative reference is unknown", 5.0, -1, true, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CompareVariation(tt.actual, tt.ref, tt.lowerIsBetter)
			assert.InDelta(t, tt.wantDelta, v.Delta, 1e-9)
			assert.Equal(t, tt.wantBetter, v.Better)
			assert.Equal(t, tt.wantKnown, v.Known)
		})
	}
}
