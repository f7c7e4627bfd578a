package handlers

import (
	"net/http"
	"strconv"

	"now-playing/internal/database"
	"now-playing/internal/logging"
)

// StatsResponse combines the journal summary with the cache contents.
type StatsResponse struct {
	Renders     database.RenderStats `json:"renders"`
	CachedCards int                  `json:"cachedCards"`
	CacheBytes  int64                `json:"cacheBytes"`
}

// ListRenders returns recent journal entries. Optional query parameters:
// video (filter by id) and limit.
func (h *Handlers) ListRenders(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	renders, err := h.journal.RecentRenders(r.Context(), r.URL.Query().Get("video"), limit)
	if err != nil {
		logging.Error("ListRenders: %v", err)
		writeJSONError(w, "failed to read render journal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, renders)
}

// GetStats returns render and cache statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journal.GetStats(r.Context())
	if err != nil {
		logging.Error("GetStats: %v", err)
		writeJSONError(w, "failed to read render journal", http.StatusInternalServerError)
		return
	}

	response := StatsResponse{Renders: stats}
	if cache, err := h.renderer.CacheStats(); err == nil {
		response.CachedCards = cache.Count
		response.CacheBytes = cache.Bytes
	} else {
		logging.Warn("GetStats: cache stats unavailable: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
