package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"now-playing/internal/database"
	"now-playing/internal/metrics"
)

func TestListRenders(t *testing.T) {
	journal := &mockJournal{renders: sampleRenders()}
	router := newRouter(New(&mockRenderer{cacheDir: t.TempDir()}, journal))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/renders?video=abc&limit=5", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if journal.lastID != "abc" || journal.lastSize != 5 {
		t.Errorf("RecentRenders called with %q, %d", journal.lastID, journal.lastSize)
	}

	var got []database.Render
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Outcome != "cached" {
		t.Errorf("renders = %+v", got)
	}
}

func TestListRendersDefaultLimit(t *testing.T) {
	journal := &mockJournal{}
	router := newRouter(New(&mockRenderer{cacheDir: t.TempDir()}, journal))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/renders?limit=nope", http.NoBody))

	if journal.lastSize != 50 {
		t.Errorf("limit = %d, want default 50", journal.lastSize)
	}
}

func TestListRendersError(t *testing.T) {
	router := newRouter(New(&mockRenderer{cacheDir: t.TempDir()}, &mockJournal{err: errJournal}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/renders", http.NoBody))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	journal := &mockJournal{stats: database.RenderStats{
		Total:     3,
		ByOutcome: map[string]int64{"rendered": 2, "fallback": 1},
		ByReason:  map[string]int64{"metadata": 1},
	}}
	renderer := &mockRenderer{cacheDir: t.TempDir(), stats: metrics.CacheStats{Count: 2, Bytes: 2048}}
	router := newRouter(New(renderer, journal))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Renders.Total != 3 || got.Renders.ByOutcome["fallback"] != 1 {
		t.Errorf("renders = %+v", got.Renders)
	}
	if got.CachedCards != 2 || got.CacheBytes != 2048 {
		t.Errorf("cache = %d cards / %d bytes", got.CachedCards, got.CacheBytes)
	}
}

func TestGetStatsCacheUnavailable(t *testing.T) {
	renderer := &mockRenderer{cacheDir: t.TempDir(), statsErr: errors.New("permission denied")}
	router := newRouter(New(renderer, &mockJournal{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even without cache stats", w.Code)
	}
}
