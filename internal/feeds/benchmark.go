package feeds

import (
	"fmt"
	"strings"

	"adpulse/internal/pipeline"
	"adpulse/pkg/contracts/domain"
)

// Benchmarks is the market-reference feed. The sheet carries one row per
// vehicle and modality with the reference medians for the period.
func Benchmarks() Feed {
	return Feed{
		Name:  "benchmark",
		Range: "Benchmark",
		Schema: pipeline.Schema{
			Key: "vehicle",
			Fields: []pipeline.Field{
				{Name: "vehicle", Headers: []string{"Veículo", "Veiculo", "Vehicle"}, Kind: pipeline.KindString},
				{Name: "modality", Headers: []string{"Modalidade"}, Kind: pipeline.KindString},
				{Name: "impressions", Headers: []string{"Impressões", "Impressoes", "Impressions"}, Kind: pipeline.KindNumber},
				{Name: "clicks", Headers: []string{"Cliques", "Clicks"}, Kind: pipeline.KindNumber},
				{Name: "cost", Headers: []string{"Investimento", "Custo", "Cost"}, Kind: pipeline.KindNumber},
				{Name: "cpm", Headers: []string{"CPM"}, Kind: pipeline.KindNumber},
				{Name: "cpc", Headers: []string{"CPC"}, Kind: pipeline.KindNumber},
				{Name: "ctr", Headers: []string{"CTR"}, Kind: pipeline.KindNumber},
				{Name: "vtr", Headers: []string{"VTR"}, Kind: pipeline.KindNumber},
				{Name: "completionRate", Headers: []string{"Taxa de conclusão", "Taxa de conclusao", "Completion"}, Kind: pipeline.KindNumber},
			},
		},
	}
}

// BenchmarkKey addresses one benchmark row: vehicle upper-cased, modality
// lower-cased, joined by an underscore.
func BenchmarkKey(vehicle, modality string) string {
	return fmt.Sprintf("%s_%s",
		strings.ToUpper(strings.TrimSpace(vehicle)),
		strings.ToLower(strings.TrimSpace(modality)))
}

// ParseBenchmarks indexes the normalized benchmark rows by vehicle and
// modality. Rows without an explicit cost fall back to deriving it from
// CPM over impressions, then from CPC over clicks.
func ParseBenchmarks(records []pipeline.Record) map[string]domain.Benchmark {
	out := make(map[string]domain.Benchmark, len(records))
	for _, r := range records {
		vehicle := strings.TrimSpace(r.Str("vehicle"))
		if vehicle == "" {
			continue
		}
		b := domain.Benchmark{
			Vehicle:        vehicle,
			Modality:       strings.ToLower(strings.TrimSpace(r.Str("modality"))),
			Impressions:    r.Num("impressions"),
			Clicks:         r.Num("clicks"),
			Cost:           r.Num("cost"),
			CPM:            r.Num("cpm"),
			CPC:            r.Num("cpc"),
			CTR:            r.Num("ctr"),
			VTR:            r.Num("vtr"),
			CompletionRate: r.Num("completionRate"),
		}
		if b.Cost == 0 {
			switch {
			case b.CPM > 0 && b.Impressions > 0:
				b.Cost = b.CPM * b.Impressions / 1000
			case b.CPC > 0 && b.Clicks > 0:
				b.Cost = b.CPC * b.Clicks
			}
		}
		out[BenchmarkKey(b.Vehicle, b.Modality)] = b
	}
	return out
}

// CompareVariation measures how far an observed metric sits from its
// benchmark, as a signed percentage. lowerIsBetter flips the direction
// for cost metrics: spending under the reference is an improvement.
func CompareVariation(actual, reference float64, lowerIsBetter bool) domain.Variation {
	if reference <= 0 {
		return domain.Variation{}
	}
	delta := (actual - reference) / reference * 100
	better := delta >= 0
	if lowerIsBetter {
		better = delta <= 0
	}
	return domain.Variation{Delta: delta, Better: better, Known: true}
}
