package thumbnail

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidVideoID is returned for ids that cannot name a cache file.
var ErrInvalidVideoID = errors.New("invalid video id")

// Reason says which stage of a render failed.
type Reason string

const (
	ReasonNone       Reason = "none"
	ReasonInvalidID  Reason = "invalid_id"
	ReasonMetadata   Reason = "metadata"
	ReasonDownload   Reason = "download"
	ReasonImage      Reason = "image"
	ReasonFilesystem Reason = "filesystem"
)

// Outcome labels used for metrics and the render journal.
const (
	OutcomeRendered = "rendered"
	OutcomeCached   = "cached"
	OutcomeFallback = "fallback"
)

// StageError ties a render error to the stage it happened in.
type StageError struct {
	Reason Reason
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one render.
type Result struct {
	// Path is the card file on success.
	Path string
	// FallbackURL is the placeholder image on failure.
	FallbackURL string
	// Cached is set when Path was already on disk.
	Cached  bool
	Reason  Reason
	Err     error
	Elapsed time.Duration
}

// OK reports whether the render produced a card.
func (r Result) OK() bool {
	return r.Path != ""
}

// Location is the card path, or the placeholder URL when the render failed.
func (r Result) Location() string {
	if r.OK() {
		return r.Path
	}
	return r.FallbackURL
}

// Outcome is one of OutcomeRendered, OutcomeCached or OutcomeFallback.
func (r Result) Outcome() string {
	switch {
	case !r.OK():
		return OutcomeFallback
	case r.Cached:
		return OutcomeCached
	default:
		return OutcomeRendered
	}
}
