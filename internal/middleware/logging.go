package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"now-playing/internal/logging"
)

// accessLogFields is the #Fields directive of the access log.
const accessLogFields = "date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken x-render cs(User-Agent) cs(Referer)"

// responseWriter records the status and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// LoggingConfig selects which requests reach the access log.
type LoggingConfig struct {
	// SkipPaths are path prefixes that are never logged.
	SkipPaths []string
	// StaticPaths are the files browsers and crawlers ask for on their own.
	// The service answers them with 404; they are logged only when
	// LogStaticFiles is set.
	StaticPaths     []string
	LogStaticFiles  bool
	LogHealthChecks bool
}

// DefaultLoggingConfig logs card and API traffic plus health checks.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{},
		StaticPaths:     []string{"/favicon.ico", "/robots.txt", "/apple-touch-icon"},
		LogStaticFiles:  false,
		LogHealthChecks: true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// Logger writes one W3C extended format line per request. The x-render
// field tells a card cache hit from a fresh render or a placeholder redirect.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logging.Debug("#Software: NowPlaying/1.0")
	logging.Debug("#Fields: %s", accessLogFields)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			logging.Printf("%s", accessLine(r, wrapped, time.Since(start)))
		})
	}
}

// accessLine formats a request in accessLogFields order. Every field taken
// from the request goes through sanitizeLogField.
func accessLine(r *http.Request, rw *responseWriter, took time.Duration) string {
	now := time.Now().UTC()
	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		sanitizeLogField(getClientIP(r)),
		sanitizeLogField(r.Method),
		sanitizeLogField(r.URL.Path),
		orDash(sanitizeLogField(r.URL.RawQuery)),
		strconv.Itoa(rw.statusCode),
		strconv.FormatInt(rw.bytesWritten, 10),
		strconv.FormatInt(took.Milliseconds(), 10),
		renderField(rw.Header()),
		orDash(escapeW3CField(sanitizeLogField(r.UserAgent()))),
		orDash(sanitizeLogField(r.Referer())),
	}
	return strings.Join(fields, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitizeLogField keeps a request value on one log line: CR and LF become
// spaces, other control characters except tab are dropped.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r < 0x20 && r != '\t':
			return -1
		}
		return r
	}, s)
}

func shouldSkip(path string, config LoggingConfig) bool {
	for _, prefix := range config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if healthCheckPaths[path] {
		return !config.LogHealthChecks
	}
	if !config.LogStaticFiles {
		for _, prefix := range config.StaticPaths {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// renderField summarizes how a card request was answered: "hit" or "miss"
// for a served card, "fallback:<reason>" for a redirect, "-" otherwise.
func renderField(h http.Header) string {
	if reason := h.Get("X-Render-Fallback"); reason != "" {
		return "fallback:" + sanitizeLogField(reason)
	}
	if cache := h.Get("X-Render-Cache"); cache != "" {
		return sanitizeLogField(cache)
	}
	return "-"
}

// escapeW3CField quotes a value containing blanks or quotes, doubling any
// embedded quote.
func escapeW3CField(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
