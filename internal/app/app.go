package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"solardash/internal/config"
	apperrors "solardash/internal/errors"
	"solardash/internal/infrastructure"
	customMiddleware "solardash/internal/middleware"
	"solardash/internal/services"
	"solardash/internal/session"
	handlers "solardash/internal/transport/http"
	"solardash/pkg/contracts"
)

// compressedTypes are the response types worth gzipping. Chart PNGs are
// already compressed.
var compressedTypes = []string{
	"text/html",
	"text/csv",
	"application/json",
	"application/problem+json",
	"image/svg+xml",
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Sessions      *session.Store
	Services      *ServiceContainer
	ErrorHandler  *apperrors.ErrorHandler
	Validator     *customMiddleware.Validator
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication wires the telemetry, session store, services and router
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", cfg.Address()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices creates the session store and the services built on it
func (a *Application) initializeServices() {
	dash := a.Config.Dashboard

	a.Sessions = session.NewStore(dash.SessionTTL, dash.MaxSessions, dash.SweepInterval,
		session.WithLogger(a.Logger),
		session.WithRemoveHook(services.SessionRemovedHook(a.Metrics, a.Logger)),
	)

	a.Services = &ServiceContainer{
		Dashboard: services.NewDashboardService(a.Sessions, dash, a.Metrics, a.Logger),
		Health:    services.NewHealthService(config.AppVersion, contracts.BuildTime, a.Sessions, a.Logger),
	}

	a.ErrorHandler = apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug", services.ClassifyError)
	a.Validator = customMiddleware.NewValidator(a.Logger)

	a.Logger.Info("Services initialized",
		slog.Int("max_sessions", dash.MaxSessions),
		slog.Duration("session_ttl", dash.SessionTTL),
		slog.Int64("max_upload_bytes", dash.MaxUploadBytes))
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	// Top level so preflights are answered before route matching
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))
		}
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.ErrorHandler,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Compress(5, compressedTypes...))
		r.Use(customMiddleware.Session(customMiddleware.SessionConfig{
			CookieName: a.Config.Dashboard.SessionCookie,
			Secure:     a.Config.Security.SecureCookies,
			MaxAge:     int(a.Config.Dashboard.SessionTTL.Seconds()),
		}))

		a.setupHTMLRoutes(r)
		a.setupAPIRoutes(r)
	})

	// Outside the group so scrapes neither get a session cookie nor count as requests
	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.Sessions, a.ErrorHandler)
	r.Mount(config.MetricsEndpoint, metricsHandler.Routes())

	a.Router = r
}

// setupHTMLRoutes registers the dashboard page and its chart images
func (a *Application) setupHTMLRoutes(r chi.Router) {
	dashboard := a.Services.Dashboard

	page := handlers.NewPageHandler(dashboard, a.Validator, a.ErrorHandler, a.Logger)
	r.Get("/", page.Index)
	r.Post("/upload", page.Upload)
	r.Post("/clear", page.Clear)

	charts := handlers.NewChartHandler(dashboard, a.Validator, a.ErrorHandler, a.Logger)
	r.Mount("/charts", charts.Routes())
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", health.HealthCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/version", health.Version)

		api := handlers.NewDashboardHandler(a.Services.Dashboard, a.Validator, a.ErrorHandler, a.Logger)
		r.Mount("/dataset", api.DatasetRoutes())
		r.Mount("/analysis", api.AnalysisRoutes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
			"X-Requested-With",
		},
		ExposedHeaders:   []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	a.Logger.Info("CORS enabled", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. cancel is called when the listener
// fails so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("url", "http://"+a.Server.Addr))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	}

	if a.Sessions != nil {
		a.Sessions.Close()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return shutdownErr
}

// Run runs the application until interrupted or the listener fails
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// ctx may already be cancelled; shutdown gets its own deadline
	return a.Stop(context.Background())
}
