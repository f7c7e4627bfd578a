package database

import (
	"context"
	"time"
)

// Render is one journal row.
type Render struct {
	ID         int64     `json:"id"`
	VideoID    string    `json:"videoId"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason"`
	Location   string    `json:"location"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RenderStats summarizes the journal.
type RenderStats struct {
	Total         int64            `json:"total"`
	ByOutcome     map[string]int64 `json:"byOutcome"`
	ByReason      map[string]int64 `json:"byReason"`
	AvgDurationMs float64          `json:"avgDurationMs"`
	LastRenderAt  *time.Time       `json:"lastRenderAt,omitempty"`
}

const maxRecentRenders = 500

// RecordRender appends a journal row.
func (d *Database) RecordRender(videoID, outcome, reason, location string, elapsed time.Duration) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("record_render", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO renders (video_id, outcome, reason, location, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, videoID, outcome, reason, location, elapsed.Milliseconds(), time.Now().Unix())
	return err
}

// RecentRenders returns the newest journal rows first. A non-empty videoID
// limits the result to that video.
func (d *Database) RecentRenders(ctx context.Context, videoID string, limit int) ([]Render, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("recent_renders", start, err) }()

	if limit <= 0 || limit > maxRecentRenders {
		limit = 50
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, video_id, outcome, reason, location, duration_ms, created_at
		FROM renders
		WHERE ? = '' OR video_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, videoID, videoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	renders := []Render{}
	for rows.Next() {
		var r Render
		var created int64
		if err = rows.Scan(&r.ID, &r.VideoID, &r.Outcome, &r.Reason, &r.Location, &r.DurationMs, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(created, 0)
		renders = append(renders, r)
	}
	err = rows.Err()
	return renders, err
}

// GetStats aggregates the whole journal.
func (d *Database) GetStats(ctx context.Context) (RenderStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("render_stats", start, err) }()

	stats := RenderStats{
		ByOutcome: map[string]int64{},
		ByReason:  map[string]int64{},
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var avg float64
	var last int64
	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(duration_ms), 0), COALESCE(MAX(created_at), 0)
		FROM renders
	`).Scan(&stats.Total, &avg, &last)
	if err != nil {
		return stats, err
	}
	stats.AvgDurationMs = avg
	if last > 0 {
		t := time.Unix(last, 0)
		stats.LastRenderAt = &t
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT outcome, reason, COUNT(*) FROM renders GROUP BY outcome, reason
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome, reason string
		var n int64
		if err = rows.Scan(&outcome, &reason, &n); err != nil {
			return stats, err
		}
		stats.ByOutcome[outcome] += n
		if reason != "" && reason != "none" {
			stats.ByReason[reason] += n
		}
	}
	err = rows.Err()
	return stats, err
}
