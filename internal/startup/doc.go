// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration comes from environment variables via [LoadConfig]. A .env
// file in the working directory (or the file named by ENV_FILE) is loaded
// first; variables already set in the environment win.
//
//   - CACHE_DIR: directory for rendered cards (default: cache)
//   - DATABASE_DIR: directory for the render journal (default: database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: enable the metrics server (default: true)
//   - PLACEHOLDER_URL: image returned when a render fails (YOUTUBE_IMG_URL is accepted too)
//   - YOUTUBE_API_KEY: YouTube Data API key
//   - YOUTUBE_API_URL: API root (default: https://www.googleapis.com/youtube/v3)
//   - HEADER_FONT: bold font file for the header and title (default: embedded Go Bold)
//   - INFO_FONT: regular font file for the metadata and footer (default: embedded Go Regular)
//   - FOOTER_TEXT: footer label (default: TgMusicBots)
//   - CANVAS_SIZE: card size as WIDTHxHEIGHT (default: 1280x720)
//   - HTTP_TIMEOUT: timeout for API and download requests (default: 15s)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: log favicon, robots.txt and touch icon requests (default: false)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//
// The cache and database directories are created if missing and must be
// writable.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.LogDatabaseInit(time.Since(dbStart))
//	startup.LogServerStarted(startup.ServerConfig{Port: config.Port})
//	// ...
//	startup.LogShutdownInitiated("SIGTERM")
//	startup.LogShutdownComplete()
package startup
