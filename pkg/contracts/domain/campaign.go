package domain

// Creative represents the aggregated performance of one ad creative across
// all rows matching the active filter.
type Creative struct {
	AdName        string    `json:"ad_name"`
	CampaignName  string    `json:"campaign_name,omitempty"`
	AdGroupName   string    `json:"ad_group_name,omitempty"`
	FirstDate     string    `json:"first_date,omitempty"`
	Impressions   float64   `json:"impressions"`
	Clicks        float64   `json:"clicks"`
	Cost          float64   `json:"cost"`
	Reach         float64   `json:"reach"`
	Engagements   float64   `json:"engagements"`
	VideoViews    float64   `json:"video_views"`
	VideoViews100 float64   `json:"video_views_100"`
	CPM           float64   `json:"cpm"`
	CPC           float64   `json:"cpc"`
	CTR           float64   `json:"ctr"`
	Frequency     float64   `json:"frequency"`
	VTR           float64   `json:"vtr"`
	Media         *MediaRef `json:"media,omitempty"`
}

// KeywordStat represents the aggregated performance of one search keyword.
type KeywordStat struct {
	Keyword      string  `json:"keyword"`
	CampaignName string  `json:"campaign_name,omitempty"`
	AdGroupName  string  `json:"ad_group_name,omitempty"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	CTR          float64 `json:"ctr"`
}

// Totals carries the summary card values for the filtered,
// pre-pagination set. Ratio metrics are re-derived from the summed
// values, never averaged across rows.
type Totals struct {
	Cost        float64 `json:"cost"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	CPM         float64 `json:"cpm"`
	CPC         float64 `json:"cpc"`
	CTR         float64 `json:"ctr"`
}

// DateRange is an inclusive ISO date interval, used both as a filter and
// to report the span of available data.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Pagination describes the slice of the result set being returned.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// MediaRef points at the stored media asset for a creative.
type MediaRef struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// CreativeReport is the full response for a creatives dashboard view.
type CreativeReport struct {
	Platform            string     `json:"platform"`
	Creatives           []Creative `json:"creatives"`
	Totals              Totals     `json:"totals"`
	AvailableDates      DateRange  `json:"available_dates"`
	AvailableCategories []string   `json:"available_categories"`
	Pagination          Pagination `json:"pagination"`
}

// KeywordReport is the full response for the search keywords view.
type KeywordReport struct {
	Keywords       []KeywordStat `json:"keywords"`
	Totals         Totals        `json:"totals"`
	AvailableDates DateRange     `json:"available_dates"`
	Pagination     Pagination    `json:"pagination"`
}

// AdReport is the response for the single-ad corrected Meta view: the
// totals of one hand-picked creative with link clicks as the billable
// click.
type AdReport struct {
	AdName      string  `json:"ad_name"`
	Rows        int     `json:"rows"`
	Cost        float64 `json:"cost"`
	Impressions float64 `json:"impressions"`
	LinkClicks  float64 `json:"link_clicks"`
	CPC         float64 `json:"cpc"`
	CTR         float64 `json:"ctr"`
}
