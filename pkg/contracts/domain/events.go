package domain

// EventItem is one ranked landing-page event, optionally with child
// breakdown items (for example the "client / non-client" split under a
// contract CTA).
type EventItem struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Count    int64       `json:"count"`
	Children []EventItem `json:"children,omitempty"`
}

// EventCategory groups ranked events for one dashboard section.
type EventCategory struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Items []EventItem `json:"items"`
}

// EventReport is the full response for the event-ranking view.
type EventReport struct {
	Categories          []EventCategory `json:"categories"`
	AvailableDates      DateRange       `json:"available_dates"`
	AvailableCategories []string        `json:"available_modalities"`
}

// DeviceShare is the session share of one device category.
type DeviceShare struct {
	Device   string  `json:"device"`
	Sessions int64   `json:"sessions"`
	Percent  float64 `json:"percent"`
}

// TrafficReport summarizes GA4 receptive-page traffic for the active
// filter: session totals, engagement quality and the device/region splits.
type TrafficReport struct {
	Sessions           int64            `json:"sessions"`
	Users              int64            `json:"users"`
	EngagedSessions    int64            `json:"engaged_sessions"`
	Bounces            int64            `json:"bounces"`
	BounceRate         float64          `json:"bounce_rate"`
	AvgSessionDuration float64          `json:"avg_session_duration"`
	Devices            []DeviceShare    `json:"devices"`
	Regions            map[string]int64 `json:"regions"`
	AvailableDates     DateRange        `json:"available_dates"`
}

// Benchmark is one reference row from the market benchmark sheet, keyed
// by vehicle and modality.
type Benchmark struct {
	Vehicle        string  `json:"vehicle"`
	Modality       string  `json:"modality"`
	Impressions    float64 `json:"impressions"`
	Clicks         float64 `json:"clicks"`
	Cost           float64 `json:"cost"`
	CPM            float64 `json:"cpm"`
	CPC            float64 `json:"cpc"`
	CTR            float64 `json:"ctr"`
	VTR            float64 `json:"vtr"`
	CompletionRate float64 `json:"completion_rate"`
}

// BenchmarkEntry pairs one benchmark row with the live totals of the
// matching feed and modality, and the per-metric variation between them.
type BenchmarkEntry struct {
	Benchmark  Benchmark            `json:"benchmark"`
	Actual     Totals               `json:"actual"`
	Variations map[string]Variation `json:"variations"`
}

// BenchmarkReport is the response for the benchmark comparison view.
type BenchmarkReport struct {
	Entries []BenchmarkEntry `json:"entries"`
}

// Variation compares a live metric against its benchmark. Better depends
// on the metric direction: cost metrics improve downwards, performance
// metrics upwards. Known is false when no benchmark value exists.
type Variation struct {
	Delta  float64 `json:"delta"`
	Better bool    `json:"better"`
	Known  bool    `json:"known"`
}
