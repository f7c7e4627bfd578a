package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"now-playing/internal/logging"
	"now-playing/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })
	return &buf
}

func TestNewResponseWriter(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}
	if rw.bytesWritten != 0 || rw.wroteHeader {
		t.Error("Expected a fresh writer to have written nothing")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Status code should stay at the first value, got %d", rw.statusCode)
	}
}

func TestResponseWriterWrite(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	data := []byte("test data")
	n, err := rw.Write(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != len(data) || rw.bytesWritten != int64(len(data)) {
		t.Errorf("bytesWritten = %d, want %d", rw.bytesWritten, len(data))
	}
	if !rw.wroteHeader {
		t.Error("Expected wroteHeader to be true after Write")
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := DefaultLoggingConfig()

	if len(config.SkipPaths) != 0 {
		t.Errorf("Expected empty SkipPaths, got %d items", len(config.SkipPaths))
	}
	if len(config.StaticPaths) == 0 {
		t.Error("Expected StaticPaths to have default values")
	}
	if config.LogStaticFiles {
		t.Error("Expected LogStaticFiles to be false by default")
	}
	if !config.LogHealthChecks {
		t.Error("Expected LogHealthChecks to be true by default")
	}
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		config        LoggingConfig
		expectLogging bool
	}{
		{"Logs card requests", "/api/thumbnail/abc", DefaultLoggingConfig(), true},
		{"Skips static files when configured", "/favicon.ico", DefaultLoggingConfig(), false},
		{"Skips crawler files", "/robots.txt", DefaultLoggingConfig(), false},
		{"Skips touch icons", "/apple-touch-icon-precomposed.png", DefaultLoggingConfig(), false},
		{"Logs static files when enabled", "/favicon.ico", LoggingConfig{LogStaticFiles: true, StaticPaths: []string{"/favicon.ico"}}, true},
		{"Logs card info", "/api/thumbnail/abc/info", DefaultLoggingConfig(), true},
		{"Logs health checks when enabled", "/health", LoggingConfig{LogHealthChecks: true}, true},
		{"Skips health checks when disabled", "/health", LoggingConfig{LogHealthChecks: false}, false},
		{"Skips configured paths", "/metrics", LoggingConfig{SkipPaths: []string{"/metrics"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			handler := Logger(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			}))

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			logged := strings.Contains(buf.String(), tt.path)
			if logged != tt.expectLogging {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.expectLogging, buf.String())
			}
		})
	}
}

func TestLoggerRenderField(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cache hit", map[string]string{"X-Render-Cache": "hit"}, " hit "},
		{"fallback", map[string]string{"X-Render-Fallback": "metadata"}, " fallback:metadata "},
		{"plain request", nil, " - - -"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				_, _ = w.Write([]byte("ok"))
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/thumbnail/abc", http.NoBody))

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log line %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"cr\rlf", "cr lf"},
		{"nul\x00byte", "nulbyte"},
		{"\x1b[31mred", "[31mred"},
		{"tab\tkept", "tab\tkept"},
	}
	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Forwarded-For list", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1", "1.2.3.4"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "4.3.2.1"}, "9.9.9.9:1", "4.3.2.1"},
		{"RemoteAddr", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"IPv6 RemoteAddr", nil, "[2001:db8::1]:5555", "2001:db8::1"},
		{"RemoteAddr without port", nil, "10.0.0.2", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeW3CField(t *testing.T) {
	if got := escapeW3CField("curl/8.0"); got != "curl/8.0" {
		t.Errorf("escapeW3CField(simple) = %q", got)
	}
	if got := escapeW3CField(`Mozilla/5.0 "x"`); got != `"Mozilla/5.0 ""x"""` {
		t.Errorf("escapeW3CField(quoted) = %q", got)
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()
	for _, want := range []string{"/metrics", "/health", "/livez", "/readyz"} {
		found := false
		for _, p := range config.SkipPaths {
			if p == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %s in SkipPaths", want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/thumbnail/abc", "/api/thumbnail/{id}"},
		{"/api/thumbnail/abc/info", "/api/thumbnail/{id}/info"},
		{"/api/thumbnail/abc/x/y", "/api/thumbnail/{id}/{rest}"},
		{"/api/stats", "/api/stats"},
		{"/version", "/version"},
		{"/a/b/c/d", "/a/b/{path}"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Metrics(DefaultMetricsConfig()))
	r.HandleFunc("/api/thumbnail/{id}/info", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods("GET")

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/thumbnail/{id}/info", "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/thumbnail/xyz/info", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/thumbnail/other/info", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests counted under route template = %v, want 2", got)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 0 {
		t.Errorf("skipped path was counted %v times", got)
	}
}

func TestMetricsResponseWriterWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newMetricsResponseWriter(w)

	rw.WriteHeader(http.StatusAccepted)
	if rw.statusCode != http.StatusAccepted || w.Code != http.StatusAccepted {
		t.Errorf("statusCode = %d, recorder = %d, want 202", rw.statusCode, w.Code)
	}
}

func TestAccessLineFields(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/thumbnail/abc?size=320x180", http.NoBody)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11)")
	req.Header.Set("Referer", "https://example.com/\nforged")

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	rw.Header().Set("X-Render-Cache", "miss")
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("card"))

	line := accessLine(req, rw, 42*time.Millisecond)
	if strings.Contains(line, "\n") {
		t.Fatalf("access line spans lines: %q", line)
	}
	want := `10.0.0.1 GET /api/thumbnail/abc size=320x180 200 4 42 miss "Mozilla/5.0 (X11)" https://example.com/ forged`
	if !strings.HasSuffix(line, want) {
		t.Errorf("accessLine() = %q, want suffix %q", line, want)
	}
}
