package handlers

import (
	"context"
	"image"
	"time"

	"now-playing/internal/database"
	"now-playing/internal/metrics"
	"now-playing/internal/thumbnail"
)

// Renderer is the part of thumbnail.Renderer the handlers use.
type Renderer interface {
	Generate(ctx context.Context, videoID string, size image.Point) thumbnail.Result
	Prefetch(videoID string) <-chan thumbnail.Result
	CacheStats() (metrics.CacheStats, error)
	CacheDir() string
}

// Journal is the read side of the render journal.
type Journal interface {
	RecentRenders(ctx context.Context, videoID string, limit int) ([]database.Render, error)
	GetStats(ctx context.Context) (database.RenderStats, error)
	Ping(ctx context.Context) error
}

type Handlers struct {
	renderer  Renderer
	journal   Journal
	startTime time.Time
}

func New(renderer Renderer, journal Journal) *Handlers {
	return &Handlers{
		renderer:  renderer,
		journal:   journal,
		startTime: time.Now(),
	}
}
