package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"now-playing/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go
// heap. The rest covers goroutine stacks, cgo (SQLite) and the OS.
const DefaultMemoryRatio = 0.85

// Limit sources
const (
	SourceGOMEMLIMIT = "GOMEMLIMIT"
	SourceContainer  = "MEMORY_LIMIT"
	SourceNone       = "none"
)

// Limit describes the heap limit in effect.
type Limit struct {
	Source    string
	Container int64   // container limit in bytes, 0 when unknown
	GoLimit   int64   // Go soft memory limit in bytes, 0 when unlimited
	Ratio     float64 // share of Container, 0 unless Source is SourceContainer
}

// Configured reports whether a heap limit is in effect.
func (l Limit) Configured() bool {
	return l.GoLimit > 0
}

// ConfigureFromEnv applies MEMORY_LIMIT and MEMORY_RATIO to the runtime
// unless GOMEMLIMIT is already set.
func ConfigureFromEnv() Limit {
	l := resolveLimit(os.LookupEnv, debug.SetMemoryLimit(-1))

	switch l.Source {
	case SourceGOMEMLIMIT:
		logging.Info("  GOMEMLIMIT set via environment: %s", formatBytes(l.GoLimit))
	case SourceContainer:
		debug.SetMemoryLimit(l.GoLimit)
		logging.Info("  Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
			formatBytes(l.GoLimit), l.Ratio*100, formatBytes(l.Container))
	default:
		logging.Debug("  MEMORY_LIMIT not set, GOMEMLIMIT not configured")
	}
	return l
}

// resolveLimit works out the limit without touching the runtime. current is
// the runtime's present limit, used when GOMEMLIMIT is set.
func resolveLimit(lookup func(string) (string, bool), current int64) Limit {
	if v, ok := lookup("GOMEMLIMIT"); ok && v != "" {
		l := Limit{Source: SourceGOMEMLIMIT}
		if current > 0 && current < math.MaxInt64 {
			l.GoLimit = current
		}
		return l
	}

	raw, ok := lookup("MEMORY_LIMIT")
	if !ok || raw == "" {
		return Limit{Source: SourceNone}
	}
	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("  Invalid MEMORY_LIMIT %q, GOMEMLIMIT not configured", raw)
		return Limit{Source: SourceNone}
	}

	ratio := DefaultMemoryRatio
	if raw, ok := lookup("MEMORY_RATIO"); ok && raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err == nil && r > 0 && r <= 1 {
			ratio = r
		} else {
			logging.Warn("  Invalid MEMORY_RATIO %q (want 0 < ratio <= 1), using %.2f", raw, DefaultMemoryRatio)
		}
	}

	return Limit{
		Source:    SourceContainer,
		Container: container,
		GoLimit:   int64(float64(container) * ratio),
		Ratio:     ratio,
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
