package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{"Returns default when env var not set", "TEST_UNSET_VAR", "default", "", "default", false},
		{"Returns env value when set", "TEST_SET_VAR", "default", "custom", "custom", true},
		{"Returns empty string when env var is empty", "TEST_EMPTY_VAR", "default", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"maybe", true, true},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL_VAR", tt.value)
		if got := getEnvBool("TEST_BOOL_VAR", tt.defaultValue); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"3", 3},
		{"0", 7},
		{"-2", 7},
		{"abc", 7},
	}

	for _, tt := range tests {
		t.Setenv("TEST_INT_VAR", tt.value)
		if got := GetEnvInt("TEST_INT_VAR", 7); got != tt.want {
			t.Errorf("GetEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseCanvasSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"", 1280, 720, false},
		{"1280x720", 1280, 720, false},
		{"640X360", 640, 360, false},
		{" 800 x 600 ", 800, 600, false},
		{"1280", 0, 0, true},
		{"0x720", 0, 0, true},
		{"axb", 0, 0, true},
		{"-1x10", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseCanvasSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCanvasSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (w != tt.w || h != tt.h) {
				t.Errorf("ParseCanvasSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CACHE_DIR", "DATABASE_DIR", "PORT", "METRICS_PORT", "METRICS_ENABLED",
		"LOG_STATIC_FILES", "LOG_HEALTH_CHECKS", "PLACEHOLDER_URL", "YOUTUBE_IMG_URL",
		"YOUTUBE_API_KEY", "YOUTUBE_API_URL", "HEADER_FONT", "INFO_FONT",
		"FOOTER_TEXT", "CANVAS_SIZE", "HTTP_TIMEOUT", "ENV_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg.CacheDir != "cache" || cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CanvasWidth != 1280 || cfg.CanvasHeight != 720 {
		t.Errorf("canvas = %dx%d, want 1280x720", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.FooterText != "TgMusicBots" {
		t.Errorf("FooterText = %q", cfg.FooterText)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if !cfg.MetricsEnabled || cfg.LogStaticFiles || !cfg.LogHealthChecks {
		t.Errorf("unexpected flags: %+v", cfg)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("YOUTUBE_IMG_URL", "https://img.example/alias.png")
	t.Setenv("CANVAS_SIZE", "640x360")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("FOOTER_TEXT", "MyBot")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PlaceholderURL != "https://img.example/alias.png" {
		t.Errorf("PlaceholderURL = %q, want the YOUTUBE_IMG_URL alias", cfg.PlaceholderURL)
	}
	if cfg.CanvasWidth != 640 || cfg.CanvasHeight != 360 {
		t.Errorf("canvas = %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.FooterText != "MyBot" {
		t.Errorf("FooterText = %q", cfg.FooterText)
	}

	t.Setenv("PLACEHOLDER_URL", "https://img.example/primary.png")
	cfg, _ = ConfigFromEnv()
	if cfg.PlaceholderURL != "https://img.example/primary.png" {
		t.Errorf("PLACEHOLDER_URL should win over the alias, got %q", cfg.PlaceholderURL)
	}

	t.Setenv("CANVAS_SIZE", "bogus")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("ConfigFromEnv() should reject a bad CANVAS_SIZE")
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("FOOTER_TEXT=FromFile\nPORT=9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7000")
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() { os.Unsetenv("FOOTER_TEXT") })

	if err := LoadEnvFile(); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("FOOTER_TEXT"); got != "FromFile" {
		t.Errorf("FOOTER_TEXT = %q, want FromFile", got)
	}
	if got := os.Getenv("PORT"); got != "7000" {
		t.Errorf("PORT = %q, existing variables must not be overridden", got)
	}

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	if err := LoadEnvFile(); err == nil {
		t.Error("LoadEnvFile() with a missing explicit ENV_FILE should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "db"))
	chdir(t, dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if info, err := os.Stat(cfg.CacheDir); err != nil || !info.IsDir() {
		t.Errorf("cache dir not created: %v", err)
	}
	if cfg.DatabasePath != filepath.Join(dir, "db", "renders.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
}

func TestLoadConfigCacheDirIsFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CACHE_DIR", file)
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "db"))
	chdir(t, dir)

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail when CACHE_DIR is a file")
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/thumbnail/{id}": "api/thumbnail",
		"/api/stats":          "api/stats",
		"/health":             "health",
		"/":                   "",
	}
	for path, want := range tests {
		if got := getRouteGroup(path); got != want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGetRoutes(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/thumbnail/{id}", nil).Methods("GET", "HEAD")
	r.HandleFunc("/livez", nil)

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("GetRoutes() = %d routes, want 3: %+v", len(routes), routes)
	}
	if routes[2].Method != "*" || routes[2].Path != "/livez" {
		t.Errorf("route without methods = %+v", routes[2])
	}

	// must not panic
	LogHTTPRoutes(r, false, true)
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "(not set)" {
		t.Errorf("maskSecret(\"\") = %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Errorf("maskSecret(short) = %q", got)
	}
	if got := maskSecret("AIzaSyExample"); got != "AIza********" {
		t.Errorf("maskSecret(key) = %q", got)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
