package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "now_playing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Render metrics
var (
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_renders_total",
			Help: "Total number of render calls by outcome",
		},
		[]string{"outcome"}, // "rendered", "cached", "fallback"
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_render_failures_total",
			Help: "Total number of renders that fell back to the placeholder, by reason",
		},
		[]string{"reason"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "now_playing_render_phase_duration_seconds",
			Help:    "Duration of each render phase in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"phase"}, // "metadata", "download", "decode", "compose", "save", "total"
	)

	RendersInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_renders_in_progress",
			Help: "Number of renders currently running",
		},
	)

	PrefetchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "now_playing_prefetches_total",
			Help: "Total number of fire-and-forget renders started",
		},
	)
)

// Cache metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "now_playing_cache_hits_total",
			Help: "Total number of renders answered from the card cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "now_playing_cache_misses_total",
			Help: "Total number of renders that had to build a card",
		},
	)

	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_cache_size_bytes",
			Help: "Total size of cached cards in bytes",
		},
	)

	CacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_cache_count",
			Help: "Number of cached cards",
		},
	)
)

// Upstream metrics
var (
	MetadataRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_metadata_requests_total",
			Help: "Total number of metadata API requests",
		},
		[]string{"endpoint", "status"},
	)

	MetadataRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "now_playing_metadata_request_duration_seconds",
			Help:    "Metadata API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_downloads_total",
			Help: "Total number of thumbnail downloads",
		},
		[]string{"status"},
	)

	DownloadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "now_playing_download_size_bytes",
			Help:    "Size of downloaded thumbnails in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "now_playing_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "now_playing_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors seen",
		},
		[]string{"operation"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the Go memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "now_playing_memory_paused",
			Help: "Whether rendering is paused for memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "now_playing_memory_gc_pauses_total",
			Help: "Total number of times rendering paused and forced a GC",
		},
	)

	RenderWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "now_playing_render_memory_waits_total",
			Help: "Total number of renders that waited for memory pressure to clear",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "now_playing_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
