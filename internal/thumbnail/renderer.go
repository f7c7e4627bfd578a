package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"now-playing/internal/card"
	"now-playing/internal/filesystem"
	"now-playing/internal/logging"
	"now-playing/internal/metrics"
	"now-playing/internal/youtube"

	"github.com/disintegration/imaging"
)

// MetadataSource looks up the display metadata of a video.
type MetadataSource interface {
	Lookup(ctx context.Context, videoID string) (youtube.VideoMetadata, error)
}

// Fetcher downloads a URL to a local file.
type Fetcher interface {
	ToFile(ctx context.Context, url, dest string) (int64, error)
}

// Journal records finished renders.
type Journal interface {
	RecordRender(videoID, outcome, reason, location string, elapsed time.Duration) error
}

// Gate delays a render until it may allocate image buffers.
type Gate interface {
	Wait(ctx context.Context) error
}

// Config holds the renderer settings.
type Config struct {
	CacheDir       string
	PlaceholderURL string
	CanvasWidth    int
	CanvasHeight   int
	FooterText     string
}

// Renderer produces and caches cards.
type Renderer struct {
	cfg     Config
	source  MetadataSource
	fetcher Fetcher
	fonts   *card.FontSet
	journal Journal
	gate    Gate
	retry   filesystem.RetryConfig

	// downloads holds the base names of source files being written.
	downloads sync.Map
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidVideoID reports whether id is safe to use as a cache file name.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// New creates a renderer. journal may be nil.
func New(cfg Config, source MetadataSource, fetcher Fetcher, fonts *card.FontSet, journal Journal) (*Renderer, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("thumbnail: cache directory is required")
	}
	if source == nil || fetcher == nil || fonts == nil {
		return nil, errors.New("thumbnail: metadata source, fetcher and fonts are required")
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		cfg.CanvasWidth, cfg.CanvasHeight = card.DefaultWidth, card.DefaultHeight
	}
	if cfg.FooterText == "" {
		cfg.FooterText = card.DefaultFooter
	}

	logging.Debug("Renderer: cache dir %s, canvas %dx%d", cfg.CacheDir, cfg.CanvasWidth, cfg.CanvasHeight)

	return &Renderer{
		cfg:     cfg,
		source:  source,
		fetcher: fetcher,
		fonts:   fonts,
		journal: journal,
		retry:   filesystem.DefaultRetryConfig(),
	}, nil
}

// SetGate installs a gate consulted before each decode. Call it before the
// renderer is shared.
func (r *Renderer) SetGate(g Gate) {
	r.gate = g
}

// CacheDir returns the cache root.
func (r *Renderer) CacheDir() string {
	return r.cfg.CacheDir
}

// CanvasSize returns the default card size.
func (r *Renderer) CanvasSize() image.Point {
	return image.Pt(r.cfg.CanvasWidth, r.cfg.CanvasHeight)
}

// CachePath is where the card for videoID is stored at the default size.
func (r *Renderer) CachePath(videoID string) string {
	return filepath.Join(r.cfg.CacheDir, videoID+".png")
}

// TempPath is where the source thumbnail is downloaded.
func (r *Renderer) TempPath(videoID string) string {
	return filepath.Join(r.cfg.CacheDir, "thumb_"+videoID+".png")
}

func (r *Renderer) cachePathFor(videoID string, size image.Point) string {
	if size == r.CanvasSize() {
		return r.CachePath(videoID)
	}
	// '@' is outside the id alphabet, so no default-size card can collide.
	return filepath.Join(r.cfg.CacheDir, fmt.Sprintf("%s@%dx%d.png", videoID, size.X, size.Y))
}

// downloadPath returns TempPath(videoID) unless a file is already there.
// That file may be the card of the id "thumb_<videoID>", so a unique sibling
// is used instead.
func (r *Renderer) downloadPath(videoID string) (string, error) {
	tmp := r.TempPath(videoID)
	taken, err := filesystem.IsRegularFile(tmp, r.retry)
	if err != nil {
		logging.Warn("Download path check failed for %s: %v", tmp, err)
	}
	if !taken && err == nil {
		return tmp, nil
	}

	f, err := os.CreateTemp(r.cfg.CacheDir, "thumb_"+videoID+".*.download")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	logging.Debug("%s is taken, downloading to %s", tmp, f.Name())
	return f.Name(), nil
}

// Generate returns the card for videoID at size, rendering it if it is not
// cached. A zero size means the configured canvas size.
func (r *Renderer) Generate(ctx context.Context, videoID string, size image.Point) (res Result) {
	start := time.Now()
	metrics.RendersInProgress.Inc()

	defer func() {
		if p := recover(); p != nil {
			logging.Error("Render %s panicked: %v", videoID, p)
			res = r.fail(ReasonImage, fmt.Errorf("panic: %v", p))
		}
		metrics.RendersInProgress.Dec()
		res.Elapsed = time.Since(start)
		r.finish(videoID, res)
	}()

	if !ValidVideoID(videoID) {
		return r.fail(ReasonInvalidID, fmt.Errorf("%q: %w", videoID, ErrInvalidVideoID))
	}
	if size == (image.Point{}) {
		size = r.CanvasSize()
	}
	if size.X <= 0 || size.Y <= 0 {
		return r.fail(ReasonImage, fmt.Errorf("invalid canvas size %dx%d", size.X, size.Y))
	}

	final := r.cachePathFor(videoID, size)
	if ok, err := filesystem.IsRegularFile(final, r.retry); ok {
		metrics.CacheHits.Inc()
		logging.Debug("Card cache hit: %s", final)
		return Result{Path: final, Cached: true, Reason: ReasonNone}
	} else if err != nil {
		logging.Warn("Card cache check failed for %s: %v", final, err)
	}
	metrics.CacheMisses.Inc()

	phase := time.Now()
	meta, err := r.source.Lookup(ctx, videoID)
	observePhase("metadata", phase)
	if err != nil {
		return r.fail(ReasonMetadata, err)
	}

	if err := os.MkdirAll(r.cfg.CacheDir, 0755); err != nil {
		return r.fail(ReasonFilesystem, fmt.Errorf("failed to create cache dir: %w", err))
	}

	tmp, err := r.downloadPath(videoID)
	if err != nil {
		return r.fail(ReasonFilesystem, err)
	}
	r.downloads.Store(filepath.Base(tmp), struct{}{})
	defer func() {
		if err := filesystem.RemoveWithRetry(tmp, r.retry); err != nil {
			logging.Warn("Failed to remove %s: %v", tmp, err)
		}
		r.downloads.Delete(filepath.Base(tmp))
	}()

	phase = time.Now()
	_, err = r.fetcher.ToFile(ctx, meta.ThumbnailURL, tmp)
	observePhase("download", phase)
	if err != nil {
		return r.fail(ReasonDownload, err)
	}

	if r.gate != nil {
		if err := r.gate.Wait(ctx); err != nil {
			return r.fail(ReasonImage, fmt.Errorf("waiting for memory: %w", err))
		}
	}

	phase = time.Now()
	src, err := openSource(tmp)
	observePhase("decode", phase)
	if err != nil {
		return r.fail(ReasonImage, err)
	}

	faces, err := r.fonts.Faces()
	if err != nil {
		return r.fail(ReasonImage, err)
	}
	defer faces.Close()

	phase = time.Now()
	img, err := card.Compose(src, card.Info{
		Title:    meta.Title,
		Duration: meta.Duration,
		Views:    meta.ViewCountShort,
		Channel:  meta.ChannelName,
	}, card.Options{
		Width:  size.X,
		Height: size.Y,
		Faces:  faces,
		Footer: r.cfg.FooterText,
	})
	observePhase("compose", phase)
	if err != nil {
		return r.fail(ReasonImage, err)
	}

	phase = time.Now()
	err = writePNG(img, final)
	observePhase("save", phase)
	if err != nil {
		return r.fail(ReasonFilesystem, err)
	}

	logging.Debug("Card rendered: %s", final)
	return Result{Path: final, Reason: ReasonNone}
}

// Prefetch renders videoID in the background at the default size. The
// render is not tied to the caller's lifetime. The returned channel receives
// the result and may be ignored.
func (r *Renderer) Prefetch(videoID string) <-chan Result {
	metrics.PrefetchesTotal.Inc()
	done := make(chan Result, 1)
	go func() {
		done <- r.Generate(context.Background(), videoID, image.Point{})
	}()
	return done
}

// CacheStats counts finished cards in the cache directory. Source images
// still being downloaded are skipped.
func (r *Renderer) CacheStats() (metrics.CacheStats, error) {
	var stats metrics.CacheStats
	entries, err := os.ReadDir(r.cfg.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, err
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".png" {
			continue
		}
		if _, busy := r.downloads.Load(name); busy {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Count++
		stats.Bytes += info.Size()
	}
	return stats, nil
}

func (r *Renderer) fail(reason Reason, err error) Result {
	return Result{
		FallbackURL: r.cfg.PlaceholderURL,
		Reason:      reason,
		Err:         &StageError{Reason: reason, Err: err},
	}
}

func (r *Renderer) finish(videoID string, res Result) {
	outcome := res.Outcome()
	metrics.RendersTotal.WithLabelValues(outcome).Inc()
	metrics.RenderDuration.WithLabelValues("total").Observe(res.Elapsed.Seconds())

	if !res.OK() {
		metrics.RenderFailures.WithLabelValues(string(res.Reason)).Inc()
		logging.Warn("Render %s failed (%s): %v", videoID, res.Reason, res.Err)
	}

	if r.journal != nil {
		if err := r.journal.RecordRender(videoID, outcome, string(res.Reason), res.Location(), res.Elapsed); err != nil {
			logging.Warn("Failed to journal render %s: %v", videoID, err)
		}
	}
}

func observePhase(phase string, start time.Time) {
	metrics.RenderDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// writePNG encodes img next to dest and renames it into place.
func writePNG(img image.Image, dest string) error {
	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.partial")
	if err != nil {
		return fmt.Errorf("failed to create partial file: %w", err)
	}
	partial := f.Name()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		os.Remove(partial)
		return fmt.Errorf("failed to encode card: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to close partial file: %w", err)
	}
	if err := os.Chmod(partial, 0644); err != nil {
		logging.Debug("chmod %s: %v", partial, err)
	}
	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to move card into place: %w", err)
	}
	return nil
}
