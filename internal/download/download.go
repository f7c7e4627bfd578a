package download

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"now-playing/internal/logging"
	"now-playing/internal/metrics"

	"github.com/go-resty/resty/v2"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s: %s", e.URL, e.Status)
}

// Downloader performs single-shot GET requests.
type Downloader struct {
	client *resty.Client
}

// New creates a downloader with the given request timeout.
func New(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Downloader{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "now-playing/1.0"),
	}
}

// ToFile downloads url and writes the whole body to dest. It returns the
// number of bytes written.
func (d *Downloader) ToFile(ctx context.Context, url, dest string) (int64, error) {
	status := "error"
	defer func() {
		metrics.DownloadsTotal.WithLabelValues(status).Inc()
	}()

	start := time.Now()
	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		status = strconv.Itoa(resp.StatusCode())
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	body := resp.Body()
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	status = "success"
	metrics.DownloadSizeBytes.Observe(float64(len(body)))
	logging.Debug("Downloaded %s (%d bytes) in %v", url, len(body), time.Since(start))
	return int64(len(body)), nil
}
