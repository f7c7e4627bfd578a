package handlers

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"now-playing/internal/logging"
	"now-playing/internal/thumbnail"

	"github.com/gorilla/mux"
)

// maxCanvasSide bounds the w and h query parameters.
const maxCanvasSide = 4096

// ThumbnailInfo is the JSON form of a render result.
type ThumbnailInfo struct {
	VideoID   string `json:"videoId"`
	OK        bool   `json:"ok"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason"`
	Location  string `json:"location"`
	Cached    bool   `json:"cached"`
	ElapsedMs int64  `json:"elapsedMs"`
	Error     string `json:"error,omitempty"`
}

func infoFromResult(videoID string, res thumbnail.Result) ThumbnailInfo {
	info := ThumbnailInfo{
		VideoID:   videoID,
		OK:        res.OK(),
		Outcome:   res.Outcome(),
		Reason:    string(res.Reason),
		Location:  res.Location(),
		Cached:    res.Cached,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		info.Error = res.Err.Error()
	}
	return info
}

// parseSize reads the optional w and h query parameters. Both or neither
// must be given; neither means the configured canvas size.
func parseSize(r *http.Request) (image.Point, error) {
	ws, hs := r.URL.Query().Get("w"), r.URL.Query().Get("h")
	if ws == "" && hs == "" {
		return image.Point{}, nil
	}
	if ws == "" || hs == "" {
		return image.Point{}, errors.New("w and h must be given together")
	}

	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil {
		return image.Point{}, errors.New("w and h must be integers")
	}
	if w <= 0 || h <= 0 || w > maxCanvasSide || h > maxCanvasSide {
		return image.Point{}, fmt.Errorf("w and h must be between 1 and %d", maxCanvasSide)
	}
	return image.Pt(w, h), nil
}

// GetThumbnail renders (or serves the cached) card for a video. A failed
// render redirects to the placeholder image.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	size, err := parseSize(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.renderer.Generate(r.Context(), videoID, size)

	switch {
	case res.OK():
		cache := "miss"
		if res.Cached {
			cache = "hit"
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Render-Cache", cache)
		http.ServeFile(w, r, res.Path)

	case res.Reason == thumbnail.ReasonInvalidID:
		writeJSONError(w, "invalid video id", http.StatusBadRequest)

	case res.FallbackURL != "":
		w.Header().Set("X-Render-Fallback", string(res.Reason))
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, res.FallbackURL, http.StatusFound)

	default:
		logging.Error("Thumbnail %s failed with no placeholder configured: %v", videoID, res.Err)
		w.Header().Set("X-Render-Fallback", string(res.Reason))
		writeJSONError(w, "render failed", http.StatusBadGateway)
	}
}

// GetThumbnailInfo renders the card like GetThumbnail and returns the
// result as JSON.
func (h *Handlers) GetThumbnailInfo(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	size, err := parseSize(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.renderer.Generate(r.Context(), videoID, size)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if res.Reason == thumbnail.ReasonInvalidID {
		w.WriteHeader(http.StatusBadRequest)
	}
	writeJSON(w, infoFromResult(videoID, res))
}

// PrefetchThumbnail starts a background render and returns immediately.
func (h *Handlers) PrefetchThumbnail(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]
	if !thumbnail.ValidVideoID(videoID) {
		writeJSONError(w, "invalid video id", http.StatusBadRequest)
		return
	}

	h.renderer.Prefetch(videoID)
	logging.Debug("Prefetch queued for %s", videoID)

	writeJSONStatus(w, http.StatusAccepted, "accepted")
}
