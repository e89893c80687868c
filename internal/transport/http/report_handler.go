package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "adpulse/internal/errors"
	"adpulse/internal/exporter"
	"adpulse/internal/services"
)

// exportPageSize caps a CSV export; the feeds hold at most a few hundred
// creatives each.
const exportPageSize = 100000

// ReportHandler serves the dashboard report endpoints.
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.NotFound(h.errorHandler.NotFound)
	r.MethodNotAllowed(h.errorHandler.MethodNotAllowed)

	r.Route("/creatives/{platform}", func(r chi.Router) {
		r.Use(h.PlatformCtx)
		r.Get("/", h.GetCreatives)
		r.Get("/export", h.ExportCreatives)
	})
	r.Get("/keywords", h.GetKeywords)
	r.Get("/keywords/export", h.ExportKeywords)
	r.Get("/ads/meta", h.GetMetaAd)
	r.Get("/events/ranking", h.GetEventRanking)
	r.Get("/traffic", h.GetTraffic)
	r.Get("/benchmark", h.GetBenchmark)

	return r
}

// PlatformCtx validates the platform URL parameter.
func (h *ReportHandler) PlatformCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		if platform == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("platform", "O identificador da plataforma é obrigatório"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCreatives handles GET /api/creatives/{platform}.
func (h *ReportHandler) GetCreatives(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")

	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.CreativeReport(r.Context(), platform, q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "creative report failed",
			slog.String("platform", platform),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// ExportCreatives handles GET /api/creatives/{platform}/export, the
// filtered creatives as a CSV download.
func (h *ReportHandler) ExportCreatives(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")

	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	q.Page = 1
	q.PageSize = exportPageSize

	report, err := h.service.CreativeReport(r.Context(), platform, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-creatives.csv", platform))
	if err := exporter.WriteCreatives(w, report); err != nil {
		h.logger.ErrorContext(r.Context(), "creative export failed",
			slog.String("platform", platform),
			slog.String("error", err.Error()))
	}
}

// ExportKeywords handles GET /api/keywords/export.
func (h *ReportHandler) ExportKeywords(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	q.Page = 1
	q.PageSize = exportPageSize

	report, err := h.service.KeywordReport(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=keywords.csv")
	if err := exporter.WriteKeywords(w, report); err != nil {
		h.logger.ErrorContext(r.Context(), "keyword export failed",
			slog.String("error", err.Error()))
	}
}

// GetKeywords handles GET /api/keywords.
func (h *ReportHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.KeywordReport(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "keyword report failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetMetaAd handles GET /api/ads/meta, the corrected single-ad view.
func (h *ReportHandler) GetMetaAd(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.MetaAdReport(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "meta ad report failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetEventRanking handles GET /api/events/ranking.
func (h *ReportHandler) GetEventRanking(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.EventReport(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "event report failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetTraffic handles GET /api/traffic.
func (h *ReportHandler) GetTraffic(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.TrafficReport(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "traffic report failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetBenchmark handles GET /api/benchmark.
func (h *ReportHandler) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.BenchmarkReport(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "benchmark report failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// parseQuery extracts the common report parameters: the date range,
// category selection, pagination and ordering.
func parseQuery(r *http.Request) (services.Query, error) {
	var q services.Query
	values := r.URL.Query()

	start := strings.TrimSpace(values.Get("start"))
	end := strings.TrimSpace(values.Get("end"))
	if (start == "") != (end == "") {
		return q, apierrors.ErrValidation("start", "start e end devem ser informados juntos")
	}
	if start != "" {
		if err := validateISODate(start); err != nil {
			return q, apierrors.ErrValidation("start", err.Error())
		}
		if err := validateISODate(end); err != nil {
			return q, apierrors.ErrValidation("end", err.Error())
		}
		if end < start {
			return q, apierrors.ErrValidation("end", "end não pode ser anterior a start")
		}
		q.Filter.Start = start
		q.Filter.End = end
	}

	for _, raw := range values["categories"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Filter.Categories = append(q.Filter.Categories, c)
			}
		}
	}

	var err error
	if q.Page, err = parsePositiveInt(values.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = parsePositiveInt(values.Get("page_size"), "page_size"); err != nil {
		return q, err
	}

	q.Order = strings.TrimSpace(values.Get("order"))
	q.Ascending = values.Get("direction") == "asc"
	return q, nil
}

func validateISODate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("data inválida %q, use YYYY-MM-DD", s)
	}
	return nil
}

func parsePositiveInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierrors.ErrValidation(field, fmt.Sprintf("%s deve ser um inteiro positivo", field))
	}
	return n, nil
}
