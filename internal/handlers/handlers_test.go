package handlers

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"now-playing/internal/database"
	"now-playing/internal/metrics"
	"now-playing/internal/thumbnail"

	"github.com/gorilla/mux"
)

type mockRenderer struct {
	mu         sync.Mutex
	result     thumbnail.Result
	cacheDir   string
	stats      metrics.CacheStats
	statsErr   error
	lastID     string
	lastSize   image.Point
	prefetched []string
}

func (m *mockRenderer) Generate(_ context.Context, videoID string, size image.Point) thumbnail.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = videoID
	m.lastSize = size
	if !thumbnail.ValidVideoID(videoID) {
		return thumbnail.Result{Reason: thumbnail.ReasonInvalidID, FallbackURL: "https://example.com/p.png", Err: thumbnail.ErrInvalidVideoID}
	}
	return m.result
}

func (m *mockRenderer) Prefetch(videoID string) <-chan thumbnail.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefetched = append(m.prefetched, videoID)
	ch := make(chan thumbnail.Result, 1)
	ch <- m.result
	return ch
}

func (m *mockRenderer) CacheStats() (metrics.CacheStats, error) {
	return m.stats, m.statsErr
}

func (m *mockRenderer) CacheDir() string {
	return m.cacheDir
}

type mockJournal struct {
	renders  []database.Render
	stats    database.RenderStats
	err      error
	pingErr  error
	lastID   string
	lastSize int
}

func (m *mockJournal) RecentRenders(_ context.Context, videoID string, limit int) ([]database.Render, error) {
	m.lastID = videoID
	m.lastSize = limit
	return m.renders, m.err
}

func (m *mockJournal) GetStats(context.Context) (database.RenderStats, error) {
	return m.stats, m.err
}

func (m *mockJournal) Ping(context.Context) error {
	return m.pingErr
}

var errJournal = errors.New("journal unavailable")

// newRouter wires the handlers the same way main does.
func newRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.HandleFunc("/api/thumbnail/{id}", h.GetThumbnail).Methods("GET")
	r.HandleFunc("/api/thumbnail/{id}/info", h.GetThumbnailInfo).Methods("GET")
	r.HandleFunc("/api/thumbnail/{id}/prefetch", h.PrefetchThumbnail).Methods("POST")
	r.HandleFunc("/api/renders", h.ListRenders).Methods("GET")
	r.HandleFunc("/api/stats", h.GetStats).Methods("GET")
	return r
}

func sampleRenders() []database.Render {
	return []database.Render{
		{ID: 2, VideoID: "abc", Outcome: "cached", Reason: "none", Location: "/cache/abc.png", CreatedAt: time.Unix(1700000100, 0)},
		{ID: 1, VideoID: "abc", Outcome: "rendered", Reason: "none", Location: "/cache/abc.png", DurationMs: 850, CreatedAt: time.Unix(1700000000, 0)},
	}
}
