package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"adpulse/internal/config"
	apierrors "adpulse/internal/errors"
	"adpulse/internal/feeds"
	"adpulse/internal/infrastructure"
	"adpulse/internal/media"
	customMiddleware "adpulse/internal/middleware"
	"adpulse/internal/services"
	"adpulse/internal/sheets"
	handlers "adpulse/internal/transport/http"
	ws "adpulse/internal/websocket"
)

const (
	Version = "1.0.0"
	AppName = "AdPulse - Campaign Analytics Dashboard"
)

// Application wires the configuration, the sheet cache, the services and
// the HTTP surface together.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Cache         *sheets.Cache
	WebSocketHub  *ws.Hub
	ReportService *services.ReportService
	HealthService *services.HealthService
	MediaLibrary  *media.Library
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger

	metrics    *infrastructure.BusinessMetrics
	feedRanges []string
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig builds the application from an explicit
// configuration, used by tests.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		OTelProviders: otelProviders,
		Logger:        logger,
	}

	if otelProviders != nil && otelProviders.MeterProvider != nil {
		meter := otelProviders.MeterProvider.Meter("adpulse")
		if app.metrics, err = infrastructure.CreateBusinessMetrics(meter); err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
	}

	if err := app.initSheets(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.setupRouter()

	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// initSheets builds the proxy client, the optional snapshot fallback and
// the TTL cache in front of them.
func (a *Application) initSheets() error {
	client := sheets.NewClient(sheets.ClientConfig{
		BaseURL:       a.Config.Sheets.BaseURL,
		SpreadsheetID: a.Config.Sheets.SpreadsheetID,
		Timeout:       a.Config.Sheets.Timeout,
		MaxRetries:    a.Config.Sheets.MaxRetries,
	}, a.Logger)
	fetcher := &metricsFetcher{inner: client, metrics: a.metrics}

	var fallback sheets.Fallback
	if path := a.Config.Sheets.SnapshotFile; path != "" {
		snapshot, err := sheets.LoadSnapshot(path)
		if err != nil {
			a.Logger.Warn("snapshot unavailable, continuing without fallback",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			fallback = snapshot
			a.Logger.Info("snapshot fallback loaded",
				slog.String("path", path),
				slog.Int("ranges", len(snapshot.Ranges())))
		}
	}

	a.Cache = sheets.NewCache(fetcher, fallback, a.Config.Sheets.CacheTTL, a.Logger)

	for _, feed := range feeds.Registry() {
		rangeName := feed.Range
		if override, ok := a.Config.Feeds.Ranges[feed.Name]; ok && override != "" {
			rangeName = override
		}
		a.feedRanges = append(a.feedRanges, rangeName)
	}
	return nil
}

func (a *Application) initServices() error {
	lib, err := media.NewLibrary(context.Background(), media.Config{
		CredentialsFile: a.Config.Media.CredentialsFile,
		Folders:         a.Config.Media.Folders,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize media library: %w", err)
	}
	a.MediaLibrary = lib

	a.WebSocketHub = ws.NewHub(a.Logger)
	a.Cache.OnRefresh(a.WebSocketHub.BroadcastFeedRefresh)

	a.ReportService = services.NewReportService(a.Cache, services.Options{
		RangeOverrides: a.Config.Feeds.Ranges,
		MetaAdName:     a.Config.Feeds.MetaAdName,
		Media:          lib,
		Metrics:        a.metrics,
	}, a.Logger)

	a.HealthService = services.NewHealthService(Version, a.Cache, a.feedRanges, a.WebSocketHub, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.Compress(5))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		a.Logger.Warn("telemetry middleware disabled", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	reportHandler := handlers.NewReportHandler(a.ReportService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	// before any Mount so subrouters inherit them
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Get("/health", healthHandler.HealthCheck)
		r.Mount("/", reportHandler.Routes())
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	upgrader := ws.Upgrader(a.Config.Security.AllowedOrigins)
	r.Get("/ws", ws.ServeWS(a.WebSocketHub, upgrader, a.Logger))

	a.Router = r
}

// Start launches the background services and the HTTP listener.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.WebSocketHub.Start()

	if a.Config.Sheets.RefreshOnStart {
		go func() {
			refreshCtx, cancelRefresh := context.WithTimeout(ctx, 2*time.Minute)
			defer cancelRefresh()
			if err := a.Cache.RefreshAll(refreshCtx, a.feedRanges); err != nil {
				a.Logger.Warn("initial feed refresh incomplete",
					slog.String("error", err.Error()))
			}
		}()
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down telemetry",
				slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
