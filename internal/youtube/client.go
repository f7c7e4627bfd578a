package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"now-playing/internal/logging"
	"now-playing/internal/metrics"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

const maxResults = 25

var (
	// ErrNoResults is returned when a lookup finds no video.
	ErrNoResults = errors.New("no results")
	// ErrNoThumbnail is returned when a video has no thumbnail URL.
	ErrNoThumbnail = errors.New("no thumbnail")
)

// APIError is a non-2xx response from the Data API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube %s status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Thumbnail is one thumbnail rendition.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// SearchResult is a single video record.
type SearchResult struct {
	ID             string
	Title          string
	Duration       string
	ViewCount      int64
	ViewCountShort string
	ChannelName    string
	// Thumbnails are ordered from the largest rendition to the smallest.
	Thumbnails []Thumbnail
}

// FirstThumbnail returns the first thumbnail URL, or "" if there is none.
func (r SearchResult) FirstThumbnail() string {
	for _, t := range r.Thumbnails {
		if t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// Client talks to the YouTube Data API.
type Client struct {
	apiKey string
	http   *resty.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// WatchURL is the canonical watch page URL of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// VideoIDFromURL extracts the video id from a watch or youtu.be URL.
func VideoIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtube.com", "music.youtube.com":
		if u.Path != "/watch" {
			return "", false
		}
		id := u.Query().Get("v")
		return id, id != ""
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		return id, id != ""
	}
	return "", false
}

// Lookup returns the display metadata of one video.
func (c *Client) Lookup(ctx context.Context, videoID string) (VideoMetadata, error) {
	results, err := c.Search(ctx, WatchURL(videoID), 1)
	if err != nil {
		return VideoMetadata{}, err
	}
	if len(results) == 0 {
		return VideoMetadata{}, fmt.Errorf("video %s: %w", videoID, ErrNoResults)
	}
	return metadataFrom(results[0])
}

// Search returns up to limit videos for query. A watch URL is resolved
// directly; anything else is sent to the search endpoint.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxResults {
		limit = maxResults
	}

	var ids []string
	if id, ok := VideoIDFromURL(query); ok {
		ids = []string{id}
	} else {
		found, err := c.searchIDs(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		ids = found
	}
	if len(ids) == 0 {
		return nil, nil
	}

	results, err := c.videos(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (c *Client) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	var body searchResponse
	err := c.get(ctx, "search", map[string]string{
		"part":       "snippet",
		"type":       "video",
		"maxResults": strconv.Itoa(limit),
		"q":          query,
	}, &body)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(body.Items))
	for _, it := range body.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

type apiThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default  *apiThumbnail `json:"default"`
				Medium   *apiThumbnail `json:"medium"`
				High     *apiThumbnail `json:"high"`
				Standard *apiThumbnail `json:"standard"`
				Maxres   *apiThumbnail `json:"maxres"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) videos(ctx context.Context, ids []string) ([]SearchResult, error) {
	var body videosResponse
	err := c.get(ctx, "videos", map[string]string{
		"part": "snippet,contentDetails,statistics",
		"id":   strings.Join(ids, ","),
	}, &body)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]SearchResult, len(body.Items))
	for _, it := range body.Items {
		r := SearchResult{
			ID:          it.ID,
			Title:       it.Snippet.Title,
			Duration:    FormatDuration(it.ContentDetails.Duration),
			ChannelName: it.Snippet.ChannelTitle,
			ViewCount:   -1,
		}
		if n, err := strconv.ParseInt(it.Statistics.ViewCount, 10, 64); err == nil {
			r.ViewCount = n
			r.ViewCountShort = ShortCount(n)
		}
		thumbs := it.Snippet.Thumbnails
		for _, t := range []*apiThumbnail{thumbs.Maxres, thumbs.Standard, thumbs.High, thumbs.Medium, thumbs.Default} {
			if t != nil && t.URL != "" {
				r.Thumbnails = append(r.Thumbnails, Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
			}
		}
		byID[it.ID] = r
	}

	// Keep the order of the requested ids
	out := make([]SearchResult, 0, len(byID))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.MetadataRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.MetadataRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := c.http.R().SetContext(ctx).SetQueryParams(params)
	if c.apiKey != "" {
		req.SetQueryParam("key", c.apiKey)
	}

	resp, err := req.Get("/" + endpoint)
	if err != nil {
		return fmt.Errorf("youtube %s request failed: %w", endpoint, err)
	}
	if resp.IsError() {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode(), Body: truncateBody(resp.String())}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("youtube %s: failed to decode response: %w", endpoint, err)
	}

	status = "success"
	logging.Debug("youtube %s: %s in %v", endpoint, resp.Status(), time.Since(start))
	return nil
}

func truncateBody(s string) string {
	const max = 256
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
