// Package services implements the report queries behind the HTTP API:
// each method loads a feed's sheet range, runs it through the pipeline
// with the request's filter, and shapes the domain response.
package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	apierrors "adpulse/internal/errors"
	"adpulse/internal/feeds"
	"adpulse/internal/infrastructure"
	"adpulse/internal/pipeline"
	"adpulse/pkg/contracts/domain"
)

// TableSource supplies the raw table for a sheet range. The sheets cache
// implements it; tests substitute fakes.
type TableSource interface {
	Get(ctx context.Context, rangeName string) (pipeline.Table, error)
}

// MediaFinder resolves a creative name to its stored media asset.
type MediaFinder interface {
	FindForCreative(platform, creativeName string) *domain.MediaRef
}

// Query carries the common report parameters.
type Query struct {
	Filter    pipeline.Filter
	Page      int
	PageSize  int
	Order     string
	Ascending bool
}

// Options configures a ReportService.
type Options struct {
	// RangeOverrides maps a feed name to a sheet range replacing the
	// feed's default.
	RangeOverrides map[string]string
	// MetaAdName is the exact ad name of the corrected single-ad view.
	MetaAdName string
	// Media is optional; nil disables creative media lookups.
	Media MediaFinder
	// Metrics is optional.
	Metrics *infrastructure.BusinessMetrics
}

// ReportService answers the dashboard report queries.
type ReportService struct {
	source TableSource
	feeds  map[string]feeds.Feed
	opts   Options
	logger *slog.Logger
}

// NewReportService creates a report service over the given source.
func NewReportService(source TableSource, opts Options, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		source: source,
		feeds:  feeds.Registry(),
		opts:   opts,
		logger: logger.With(slog.String("component", "report_service")),
	}
}

// Feed returns the feed definition by name.
func (s *ReportService) Feed(name string) (feeds.Feed, bool) {
	f, ok := s.feeds[strings.ToLower(name)]
	return f, ok
}

// load fetches and normalizes one feed's rows.
func (s *ReportService) load(ctx context.Context, feed feeds.Feed) ([]pipeline.Record, error) {
	rangeName := feed.Range
	if override, ok := s.opts.RangeOverrides[feed.Name]; ok && override != "" {
		rangeName = override
	}

	table, err := s.source.Get(ctx, rangeName)
	if err != nil {
		return nil, err
	}

	records := pipeline.Normalize(table, feed.Schema)
	infrastructure.RecordFeedRequest(ctx, s.opts.Metrics, feed.Name)

	s.logger.DebugContext(ctx, "feed loaded",
		slog.String("feed", feed.Name),
		slog.String("range", rangeName),
		slog.Int("rows", len(records)))
	return records, nil
}

// CreativeReport builds the creatives view for one ad platform.
func (s *ReportService) CreativeReport(ctx context.Context, platform string, q Query) (*domain.CreativeReport, error) {
	feed, ok := s.Feed(platform)
	if !ok || feed.Key == nil {
		return nil, apierrors.FeedNotFoundError(platform)
	}

	records, err := s.load(ctx, feed)
	if err != nil {
		return nil, err
	}

	start, end := pipeline.DateBounds(records, feed.Schema.Date)
	categories := pipeline.Categories(records, feed.Classify)

	filtered := pipeline.Apply(records, q.Filter, feed.Schema.Date, feed.Classify)
	grouped := pipeline.Aggregate(filtered, feed.Schema, feed.Key)
	pipeline.Derive(grouped, feed.Ratios)

	clickField := s.clickField(feed)
	totals := totalsOf(pipeline.Totals(grouped, feed.Schema.Additive, feed.Ratios), clickField)

	order := q.Order
	if order == "" {
		order = "cost"
	}
	pipeline.SortBy(grouped, order, q.Ascending)

	page := normalizePage(q.Page)
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = feed.PageSize
	}
	pageRecords := pipeline.Paginate(grouped, page, pageSize)

	creatives := make([]domain.Creative, 0, len(pageRecords))
	for _, rec := range pageRecords {
		creatives = append(creatives, s.toCreative(feed, rec, clickField))
	}

	return &domain.CreativeReport{
		Platform:            feed.Name,
		Creatives:           creatives,
		Totals:              totals,
		AvailableDates:      domain.DateRange{Start: start, End: end},
		AvailableCategories: categories,
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: len(grouped),
			TotalPages: pipeline.TotalPages(len(grouped), pageSize),
		},
	}, nil
}

// KeywordReport builds the search keywords view.
func (s *ReportService) KeywordReport(ctx context.Context, q Query) (*domain.KeywordReport, error) {
	feed := s.feeds["googlesearch"]

	records, err := s.load(ctx, feed)
	if err != nil {
		return nil, err
	}

	start, end := pipeline.DateBounds(records, feed.Schema.Date)

	filtered := pipeline.Apply(records, q.Filter, feed.Schema.Date, feed.Classify)
	grouped := pipeline.Aggregate(filtered, feed.Schema, feed.Key)
	pipeline.Derive(grouped, feed.Ratios)

	totals := totalsOf(pipeline.Totals(grouped, feed.Schema.Additive, feed.Ratios), "clicks")

	order := q.Order
	if order == "" {
		order = "clicks"
	}
	pipeline.SortBy(grouped, order, q.Ascending)

	page := normalizePage(q.Page)
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = feed.PageSize
	}
	pageRecords := pipeline.Paginate(grouped, page, pageSize)

	keywords := make([]domain.KeywordStat, 0, len(pageRecords))
	for _, rec := range pageRecords {
		keywords = append(keywords, domain.KeywordStat{
			Keyword:      rec.Str("keyword"),
			CampaignName: rec.Str("campaignName"),
			AdGroupName:  rec.Str("adGroupName"),
			Impressions:  rec.Num("impressions"),
			Clicks:       rec.Num("clicks"),
			CTR:          rec.Num("ctr"),
		})
	}

	return &domain.KeywordReport{
		Keywords:       keywords,
		Totals:         totals,
		AvailableDates: domain.DateRange{Start: start, End: end},
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: len(grouped),
			TotalPages: pipeline.TotalPages(len(grouped), pageSize),
		},
	}, nil
}

// MetaAdReport builds the corrected single-ad Meta view: the configured
// ad only, with link clicks as the billable click.
func (s *ReportService) MetaAdReport(ctx context.Context, q Query) (*domain.AdReport, error) {
	if s.opts.MetaAdName == "" {
		return nil, apierrors.NotFoundError("meta ad")
	}
	feed := s.feeds["meta"]

	records, err := s.load(ctx, feed)
	if err != nil {
		return nil, err
	}
	filtered := pipeline.Apply(records, q.Filter, feed.Schema.Date, feed.Classify)

	report := &domain.AdReport{AdName: s.opts.MetaAdName}
	for _, rec := range filtered {
		if rec.Str("adName") != s.opts.MetaAdName {
			continue
		}
		report.Rows++
		report.Cost += rec.Num("cost")
		report.Impressions += rec.Num("impressions")
		report.LinkClicks += rec.Num("linkClicks")
	}
	if report.LinkClicks > 0 {
		report.CPC = report.Cost / report.LinkClicks
	}
	if report.Impressions > 0 {
		report.CTR = report.LinkClicks / report.Impressions * 100
	}
	return report, nil
}

// EventReport builds the landing-page event ranking.
func (s *ReportService) EventReport(ctx context.Context, q Query) (*domain.EventReport, error) {
	feed := s.feeds["events"]

	records, err := s.load(ctx, feed)
	if err != nil {
		return nil, err
	}

	start, end := pipeline.DateBounds(records, feed.Schema.Date)
	modalities := pipeline.Categories(records, feed.Classify)

	filtered := pipeline.Apply(records, q.Filter, feed.Schema.Date, feed.Classify)
	counts := feeds.RankEvents(filtered)

	return &domain.EventReport{
		Categories:          feeds.CategorizeEvents(counts),
		AvailableDates:      domain.DateRange{Start: start, End: end},
		AvailableCategories: modalities,
	}, nil
}

// TrafficReport builds the GA4 traffic summary.
func (s *ReportService) TrafficReport(ctx context.Context, q Query) (*domain.TrafficReport, error) {
	feed := s.feeds["ga4"]

	records, err := s.load(ctx, feed)
	if err != nil {
		return nil, err
	}

	start, end := pipeline.DateBounds(records, feed.Schema.Date)
	filtered := pipeline.Apply(records, q.Filter, feed.Schema.Date, feed.Classify)

	report := feeds.BuildTraffic(filtered)
	report.AvailableDates = domain.DateRange{Start: start, End: end}
	return &report, nil
}

// BenchmarkReport compares each benchmark row against the live totals of
// the matching feed and modality.
func (s *ReportService) BenchmarkReport(ctx context.Context, q Query) (*domain.BenchmarkReport, error) {
	benchFeed := s.feeds["benchmark"]

	records, err := s.load(ctx, benchFeed)
	if err != nil {
		return nil, err
	}
	benchmarks := feeds.ParseBenchmarks(records)

	report := &domain.BenchmarkReport{}
	loaded := make(map[string][]pipeline.Record)

	for _, b := range benchmarks {
		feed, ok := s.Feed(b.Vehicle)
		if !ok || feed.Key == nil {
			// benchmark rows for vehicles we do not track are shown
			// without live totals
			report.Entries = append(report.Entries, domain.BenchmarkEntry{Benchmark: b})
			continue
		}

		live, ok := loaded[feed.Name]
		if !ok {
			live, err = s.load(ctx, feed)
			if err != nil {
				return nil, err
			}
			loaded[feed.Name] = live
		}

		modFilter := q.Filter
		if b.Modality != "" {
			modFilter.Categories = []string{b.Modality}
		}
		filtered := pipeline.Apply(live, modFilter, feed.Schema.Date, feed.Classify)
		grouped := pipeline.Aggregate(filtered, feed.Schema, feed.Key)
		actual := totalsOf(pipeline.Totals(grouped, feed.Schema.Additive, feed.Ratios), s.clickField(feed))

		report.Entries = append(report.Entries, domain.BenchmarkEntry{
			Benchmark: b,
			Actual:    actual,
			Variations: map[string]domain.Variation{
				"cost": feeds.CompareVariation(actual.Cost, b.Cost, true),
				"cpm":  feeds.CompareVariation(actual.CPM, b.CPM, true),
				"cpc":  feeds.CompareVariation(actual.CPC, b.CPC, true),
				"ctr":  feeds.CompareVariation(actual.CTR, b.CTR, false),
			},
		})
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i].Benchmark, report.Entries[j].Benchmark
		if a.Vehicle != b.Vehicle {
			return a.Vehicle < b.Vehicle
		}
		return a.Modality < b.Modality
	})
	return report, nil
}

func (s *ReportService) toCreative(feed feeds.Feed, rec pipeline.Record, clickField string) domain.Creative {
	c := domain.Creative{
		AdName:        rec.Str("adName"),
		CampaignName:  rec.Str("campaignName"),
		AdGroupName:   rec.Str("adGroupName"),
		FirstDate:     rec.Str(feed.Schema.Date),
		Impressions:   rec.Num("impressions"),
		Clicks:        rec.Num(clickField),
		Cost:          rec.Num("cost"),
		Reach:         rec.Num("reach"),
		Engagements:   rec.Num("engagements"),
		VideoViews:    rec.Num("videoViews"),
		VideoViews100: rec.Num("videoViews100"),
		CPM:           rec.Num("cpm"),
		CPC:           rec.Num("cpc"),
		CTR:           rec.Num("ctr"),
		Frequency:     rec.Num("frequency"),
		VTR:           rec.Num("vtr"),
	}
	if s.opts.Media != nil {
		c.Media = s.opts.Media.FindForCreative(feed.Name, c.AdName)
	}
	return c
}

// clickField names the feed's billable click field.
func (s *ReportService) clickField(feed feeds.Feed) string {
	for _, r := range feed.Ratios {
		if r.Name == "ctr" {
			return r.Numerator
		}
	}
	return "clicks"
}

func totalsOf(rec pipeline.Record, clickField string) domain.Totals {
	return domain.Totals{
		Cost:        rec.Num("cost"),
		Impressions: rec.Num("impressions"),
		Clicks:      rec.Num(clickField),
		CPM:         rec.Num("cpm"),
		CPC:         rec.Num("cpc"),
		CTR:         rec.Num("ctr"),
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
