package feeds

import (
	"sort"
	"strings"

	"adpulse/internal/pipeline"
	"adpulse/pkg/contracts/domain"
)

// GA4 is the site-traffic feed exported from Google Analytics. Sessions
// are the additive unit; duration and bounce rate are session-weighted
// on aggregation.
func GA4() Feed {
	return Feed{
		Name:  "ga4",
		Range: "GA4_trafego",
		Schema: pipeline.Schema{
			Key:  "region",
			Date: "date",
			Fields: []pipeline.Field{
				{Name: "date", Headers: []string{"Date", "Data"}, Kind: pipeline.KindDate},
				{Name: "region", Headers: []string{"Region", "Região", "Regiao"}, Kind: pipeline.KindString},
				{Name: "device", Headers: []string{"Device category", "Dispositivo"}, Kind: pipeline.KindString},
				{Name: "sessions", Headers: []string{"Sessions", "Sessões", "Sessoes"}, Kind: pipeline.KindInt},
				{Name: "users", Headers: []string{"Total users", "Usuários", "Usuarios"}, Kind: pipeline.KindInt},
				{Name: "engagedSessions", Headers: []string{"Engaged sessions", "Sessões engajadas"}, Kind: pipeline.KindInt},
				{Name: "avgDuration", Headers: []string{"Average session duration", "Duração média"}, Kind: pipeline.KindNumber},
				{Name: "bounceRate", Headers: []string{"Bounce rate", "Taxa de rejeição"}, Kind: pipeline.KindNumber},
				{Name: "modality", Headers: []string{"Modalidade"}, Kind: pipeline.KindString},
			},
			Additive: []string{"sessions", "users", "engagedSessions"},
		},
		Classify: ColumnClassifier("modality"),
	}
}

// regionNames maps GA4's English state names to the local form shown on
// the dashboard. Unmapped regions pass through unchanged.
var regionNames = map[string]string{
	"State of Sao Paulo":           "São Paulo",
	"State of Rio de Janeiro":      "Rio de Janeiro",
	"State of Minas Gerais":        "Minas Gerais",
	"State of Bahia":               "Bahia",
	"State of Parana":              "Paraná",
	"State of Rio Grande do Sul":   "Rio Grande do Sul",
	"State of Pernambuco":          "Pernambuco",
	"State of Ceara":               "Ceará",
	"State of Santa Catarina":      "Santa Catarina",
	"State of Goias":               "Goiás",
	"State of Espirito Santo":      "Espírito Santo",
	"State of Para":                "Pará",
	"State of Amazonas":            "Amazonas",
	"State of Maranhao":            "Maranhão",
	"State of Mato Grosso":         "Mato Grosso",
	"State of Mato Grosso do Sul":  "Mato Grosso do Sul",
	"State of Paraiba":             "Paraíba",
	"State of Rio Grande do Norte": "Rio Grande do Norte",
	"State of Alagoas":             "Alagoas",
	"State of Piaui":               "Piauí",
	"State of Sergipe":             "Sergipe",
	"State of Rondonia":            "Rondônia",
	"State of Tocantins":           "Tocantins",
	"State of Acre":                "Acre",
	"State of Amapa":               "Amapá",
	"State of Roraima":             "Roraima",
	"Federal District":             "Distrito Federal",
	"(not set)":                    "Não identificado",
}

// RegionName localizes a GA4 region label.
func RegionName(raw string) string {
	raw = strings.TrimSpace(raw)
	if name, ok := regionNames[raw]; ok {
		return name
	}
	return raw
}

// BuildTraffic aggregates filtered GA4 rows into the traffic report:
// session totals, device share, region split and session-weighted
// engagement averages.
func BuildTraffic(records []pipeline.Record) domain.TrafficReport {
	report := domain.TrafficReport{
		Regions: make(map[string]int64),
	}

	type deviceAccum struct{ sessions int64 }
	devices := make(map[string]*deviceAccum)

	var weightedDur, weightedBounce float64

	for _, r := range records {
		s := r.Num("sessions")
		report.Sessions += int64(s)
		report.Users += int64(r.Num("users"))
		report.EngagedSessions += int64(r.Num("engagedSessions"))
		weightedDur += r.Num("avgDuration") * s
		weightedBounce += r.Num("bounceRate") * s

		if d := strings.ToLower(strings.TrimSpace(r.Str("device"))); d != "" {
			a, ok := devices[d]
			if !ok {
				a = &deviceAccum{}
				devices[d] = a
			}
			a.sessions += int64(s)
		}
		if reg := RegionName(r.Str("region")); reg != "" {
			report.Regions[reg] += int64(s)
		}
	}

	report.Bounces = report.Sessions - report.EngagedSessions
	if report.Bounces < 0 {
		report.Bounces = 0
	}
	if report.Sessions > 0 {
		report.AvgSessionDuration = weightedDur / float64(report.Sessions)
		report.BounceRate = weightedBounce / float64(report.Sessions)
	}

	for name, a := range devices {
		percent := 0.0
		if report.Sessions > 0 {
			percent = float64(a.sessions) / float64(report.Sessions) * 100
		}
		report.Devices = append(report.Devices, domain.DeviceShare{
			Device:   name,
			Sessions: a.sessions,
			Percent:  percent,
		})
	}
	sort.SliceStable(report.Devices, func(i, j int) bool {
		if report.Devices[i].Sessions != report.Devices[j].Sessions {
			return report.Devices[i].Sessions > report.Devices[j].Sessions
		}
		return report.Devices[i].Device < report.Devices[j].Device
	})

	return report
}
