// Package metrics provides Prometheus instrumentation for the now-playing
// renderer. All metrics are prefixed with "now_playing_".
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Render Metrics
//
//   - RendersTotal: Counter of render calls by outcome (rendered/cached/fallback)
//   - RenderFailures: Counter of placeholder fallbacks by reason
//   - RenderDuration: Histogram of each render phase
//   - RendersInProgress: Gauge of running renders
//   - PrefetchesTotal: Counter of fire-and-forget renders
//
// ## Cache Metrics
//
//   - CacheHits / CacheMisses: Counters of cache lookups
//   - CacheCount / CacheSizeBytes: Gauges refreshed by the Collector
//
// ## Upstream Metrics
//
//   - MetadataRequestsTotal / MetadataRequestDuration: YouTube Data API calls
//   - DownloadsTotal / DownloadSizeBytes: thumbnail downloads
//
// ## Database and Filesystem Metrics
//
//   - DBQueryTotal / DBQueryDuration: render journal queries
//   - FilesystemRetry*: ESTALE retry bookkeeping for the cache volume
//
// # Usage
//
// Collectors register themselves through promauto on package load. Call
// InitializeMetrics once at startup so every label combination is exported
// from the first scrape, and expose promhttp.Handler on the metrics port.
package metrics
