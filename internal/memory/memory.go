package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"now-playing/internal/logging"
	"now-playing/internal/metrics"
)

// Config holds the backpressure thresholds.
type Config struct {
	// LimitBytes overrides the runtime memory limit; 0 uses GOMEMLIMIT.
	LimitBytes int64

	// HighWaterMark is the usage (0-1) below which a paused monitor resumes.
	HighWaterMark float64

	// CriticalWaterMark is the usage (0-1) at which rendering pauses.
	CriticalWaterMark float64

	CheckInterval time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     2 * time.Second,
	}
}

// Monitor samples heap usage and gates renders while memory is critical.
type Monitor struct {
	cfg   Config
	limit int64

	mu     sync.Mutex
	alloc  uint64
	paused bool
	resume chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a monitor. It is disabled when no limit is known.
func NewMonitor(cfg Config) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultConfig().CheckInterval
	}

	limit := cfg.LimitBytes
	if limit == 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
		}
	}

	return &Monitor{
		cfg:    cfg,
		limit:  limit,
		resume: make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

// Enabled reports whether the monitor has a limit to compare against.
func (m *Monitor) Enabled() bool {
	return m.limit > 0
}

// Limit returns the limit in bytes, 0 when disabled.
func (m *Monitor) Limit() int64 {
	return m.limit
}

// Start begins sampling. It does nothing when the monitor is disabled.
func (m *Monitor) Start() {
	if !m.Enabled() {
		logging.Debug("Memory monitor disabled: no memory limit")
		return
	}
	go m.loop()
}

// Stop ends sampling and releases any waiting renders. It is safe to call
// more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			m.update(stats.Alloc)
		case <-m.stop:
			return
		}
	}
}

// update records a heap sample and moves between running and paused.
func (m *Monitor) update(alloc uint64) {
	if m.limit <= 0 {
		return
	}
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.alloc = alloc

	switch {
	case usage >= m.cfg.CriticalWaterMark && !m.paused:
		logging.Warn("Memory critical (%.1f%% of limit), pausing renders", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()

	case usage < m.cfg.HighWaterMark && m.paused:
		logging.Info("Memory recovered (%.1f%% of limit), resuming renders", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resume)
		m.resume = make(chan struct{})
	}
}

// Wait blocks while the monitor is paused. It returns ctx.Err() if ctx ends
// first and nil once memory recovers or the monitor stops.
func (m *Monitor) Wait(ctx context.Context) error {
	m.mu.Lock()
	if !m.paused {
		m.mu.Unlock()
		return nil
	}
	resume := m.resume
	m.mu.Unlock()

	metrics.RenderWaits.Inc()
	logging.Debug("Render waiting for memory pressure to clear")

	select {
	case <-resume:
		return nil
	case <-m.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Paused reports whether renders are currently gated.
func (m *Monitor) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Usage returns the last sampled allocation as a fraction of the limit.
func (m *Monitor) Usage() float64 {
	if m.limit <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.alloc) / float64(m.limit)
}
