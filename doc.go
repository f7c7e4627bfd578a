// Package main provides the entry point for the Now Playing card server.
//
// The server renders "now playing" cards for YouTube videos: a blurred and
// darkened copy of the video thumbnail as the background, the rounded
// thumbnail with a soft shadow on the left, and the title, view count,
// duration and channel on the right. Cards are cached on disk as PNG files
// and served over HTTP. A failed render redirects to a placeholder image.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables (and .env),
//     validates the cache and database directories, and sets GOMEMLIMIT
//     from MEMORY_LIMIT
//  2. Metrics Initialization: Registers Prometheus collectors
//  3. Database Initialization: Opens the SQLite render journal
//  4. Renderer Initialization: Loads fonts, wires the YouTube client and
//     downloader, and starts the memory monitor that pauses renders under
//     memory pressure
//  5. HTTP Server Setup: Configures routes, middleware, and starts server
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - GET /api/thumbnail/{id}: the card PNG, or a 302 to the placeholder
//     - GET /api/thumbnail/{id}/info: the render result as JSON
//     - POST /api/thumbnail/{id}/prefetch: background render
//     - GET /api/renders, /api/stats: render journal
//     - /health, /healthz, /livez, /readyz, /version
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
//   - CACHE_DIR: Directory for rendered cards (default: cache)
//   - DATABASE_DIR: Directory for the render journal (default: database)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - PLACEHOLDER_URL: Image URL returned when a render fails
//     (YOUTUBE_IMG_URL is accepted as an alias)
//   - YOUTUBE_API_KEY, YOUTUBE_API_URL: YouTube Data API v3 access
//   - HEADER_FONT, INFO_FONT: TrueType/OpenType font files (default: Go fonts)
//   - FOOTER_TEXT: Footer label (default: TgMusicBots)
//   - CANVAS_SIZE: Default card size (default: 1280x720)
//   - HTTP_TIMEOUT: Upstream request timeout (default: 15s)
//   - MEMORY_LIMIT, MEMORY_RATIO: Container memory limit and heap share
//   - RENDER_WORKERS: Worker count for the render command
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Graceful Shutdown
//
//  1. Stop metrics collector and memory monitor
//  2. Shutdown main HTTP server (30s timeout)
//  3. Shutdown metrics server (if running)
//  4. Close database connections
//
// # Build Requirements
//
// CGO is required for SQLite (github.com/mattn/go-sqlite3).
//
// # Related Packages
//
//   - [now-playing/internal/card]: Card layout and compositing
//   - [now-playing/internal/thumbnail]: Render orchestration and disk cache
//   - [now-playing/internal/youtube]: YouTube Data API client
//   - [now-playing/internal/download]: Thumbnail downloader
//   - [now-playing/internal/database]: SQLite render journal
//   - [now-playing/internal/handlers]: HTTP request handlers
//   - [now-playing/internal/middleware]: HTTP middleware (logging, metrics)
//   - [now-playing/internal/startup]: Configuration and initialization
package main
