package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"now-playing/internal/card"
	"now-playing/internal/database"
	"now-playing/internal/download"
	"now-playing/internal/filesystem"
	"now-playing/internal/handlers"
	"now-playing/internal/logging"
	"now-playing/internal/memory"
	"now-playing/internal/metrics"
	"now-playing/internal/middleware"
	"now-playing/internal/startup"
	"now-playing/internal/thumbnail"
	"now-playing/internal/youtube"

	"github.com/gorilla/mux"
)

const cacheStatsInterval = time.Minute

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Size the heap for the container before rendering allocates
	memory.ConfigureFromEnv()

	// Initialize metrics
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	// Initialize renderer
	rendererStart := time.Now()
	fonts, err := card.LoadFontSet(config.HeaderFont, config.InfoFont)
	if err != nil {
		startup.LogFatal("Failed to load fonts: %v", err)
	}

	renderer, err := thumbnail.New(
		thumbnail.Config{
			CacheDir:       config.CacheDir,
			PlaceholderURL: config.PlaceholderURL,
			CanvasWidth:    config.CanvasWidth,
			CanvasHeight:   config.CanvasHeight,
			FooterText:     config.FooterText,
		},
		youtube.NewClient(config.YouTubeAPIKey, config.YouTubeAPIURL, config.HTTPTimeout),
		download.New(config.HTTPTimeout),
		fonts,
		db,
	)
	if err != nil {
		startup.LogFatal("Failed to initialize renderer: %v", err)
	}
	startup.LogRendererInit(config.CacheDir, config.CanvasWidth, config.CanvasHeight, time.Since(rendererStart))

	memMonitor := memory.NewMonitor(memory.DefaultConfig())
	memMonitor.Start()
	renderer.SetGate(memMonitor)

	collector := metrics.NewCollector(renderer, cacheStatsInterval)
	collector.Start()

	// Initialize handlers
	h := handlers.New(renderer, db)

	// Setup router
	router := setupRouter(h)
	if config.MetricsEnabled {
		router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*config.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsRouter := http.NewServeMux()
		metricsRouter.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsRouter,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, collector, memMonitor, db)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/thumbnail/{id}", h.GetThumbnail).Methods("GET", "HEAD")
	api.HandleFunc("/thumbnail/{id}/info", h.GetThumbnailInfo).Methods("GET")
	api.HandleFunc("/thumbnail/{id}/prefetch", h.PrefetchThumbnail).Methods("POST")
	api.HandleFunc("/renders", h.ListRenders).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, memMonitor *memory.Monitor, db *database.Database) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Stopping memory monitor")
	memMonitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing database")
	if err := db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
}
