package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"now-playing/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	DatabaseError string `json:"databaseError,omitempty"`
	CacheError    string `json:"cacheError,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	CachedCards int   `json:"cachedCards"`
	CacheBytes  int64 `json:"cacheBytes"`
}

// checkReady reports database and cache directory problems.
func (h *Handlers) checkReady(ctx context.Context) (dbErr, cacheErr error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if h.journal != nil {
		dbErr = h.journal.Ping(ctx)
	}
	if info, err := os.Stat(h.renderer.CacheDir()); err != nil {
		cacheErr = err
	} else if !info.IsDir() {
		cacheErr = os.ErrInvalid
	}
	return dbErr, cacheErr
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbErr, cacheErr := h.checkReady(r.Context())

	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        dbErr == nil && cacheErr == nil,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if dbErr != nil {
		response.DatabaseError = dbErr.Error()
	}
	if cacheErr != nil {
		response.CacheError = cacheErr.Error()
	}
	if !response.Ready {
		response.Status = statusDegraded
	}

	if stats, err := h.renderer.CacheStats(); err == nil {
		response.CachedCards = stats.Count
		response.CacheBytes = stats.Bytes
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the journal and cache are usable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	dbErr, cacheErr := h.checkReady(r.Context())
	if dbErr != nil || cacheErr != nil {
		writeJSONStatus(w, http.StatusServiceUnavailable, "not_ready")
		return
	}
	writeJSONStatus(w, http.StatusOK, "ready")
}
