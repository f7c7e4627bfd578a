package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Display defaults for fields the API did not return.
const (
	DefaultTitle    = "Unsupported Title"
	DefaultDuration = "00:00"
	DefaultViews    = "Unknown Views"
	DefaultChannel  = "Unknown Channel"
)

// VideoMetadata is what the renderer draws for one video.
type VideoMetadata struct {
	Title          string
	Duration       string
	ViewCountShort string
	ChannelName    string
	ThumbnailURL   string
}

// metadataFrom builds the display metadata from a search result.
func metadataFrom(r SearchResult) (VideoMetadata, error) {
	thumb := r.FirstThumbnail()
	if thumb == "" {
		return VideoMetadata{}, fmt.Errorf("video %s: %w", r.ID, ErrNoThumbnail)
	}

	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	return VideoMetadata{
		Title:          CleanTitle(title),
		Duration:       orDefault(r.Duration, DefaultDuration),
		ViewCountShort: orDefault(r.ViewCountShort, DefaultViews),
		ChannelName:    orDefault(r.ChannelName, DefaultChannel),
		ThumbnailURL:   StripQuery(thumb),
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// CleanTitle replaces every run of non-word characters with a single space
// and title-cases the result.
func CleanTitle(title string) string {
	return TitleCase(nonWordRun.ReplaceAllString(title, " "))
}

// TitleCase upper-cases the first cased letter after any uncased character
// and lower-cases the rest, so "2nd" becomes "2Nd" and "rOCK" becomes "Rock".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		if cased {
			if prevCased {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
		}
		prevCased = cased
		b.WriteRune(r)
	}
	return b.String()
}

// StripQuery drops everything from the first "?" on.
func StripQuery(u string) string {
	base, _, _ := strings.Cut(u, "?")
	return base
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// FormatDuration converts an ISO-8601 duration such as "PT3M33S" to the
// clock form YouTube shows ("3:33", "1:02:03"). Zero or unparseable
// durations, including live streams ("P0D"), return "".
func FormatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}

	var parts [4]int
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return ""
		}
		parts[i] = n
	}

	days, hours, minutes, seconds := parts[0], parts[1], parts[2], parts[3]
	total := ((days*24+hours)*60+minutes)*60 + seconds
	if total == 0 {
		return ""
	}

	h := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// ShortCount formats a count the way YouTube abbreviates view counts:
// 999, 1.2K, 12K, 1.2M, 340M, 1.6B. Values are truncated, not rounded.
func ShortCount(n int64) string {
	if n < 0 {
		return ""
	}

	units := []struct {
		value  int64
		suffix string
	}{
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "K"},
	}
	for _, u := range units {
		if n < u.value {
			continue
		}
		tenths := n / (u.value / 10)
		if tenths < 100 {
			if tenths%10 == 0 {
				return fmt.Sprintf("%d%s", tenths/10, u.suffix)
			}
			return fmt.Sprintf("%d.%d%s", tenths/10, tenths%10, u.suffix)
		}
		return fmt.Sprintf("%d%s", n/u.value, u.suffix)
	}
	return strconv.FormatInt(n, 10)
}
