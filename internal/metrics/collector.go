package metrics

import (
	"sync"
	"time"

	"now-playing/internal/logging"
)

// CacheStats is a snapshot of the card cache.
type CacheStats struct {
	Count int
	Bytes int64
}

// StatsProvider reports the current cache contents.
type StatsProvider interface {
	CacheStats() (CacheStats, error)
}

// Collector periodically collects cache gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats, err := c.statsProvider.CacheStats()
	if err != nil {
		logging.Warn("Metrics: failed to collect cache stats: %v", err)
		return
	}

	CacheCount.Set(float64(stats.Count))
	CacheSizeBytes.Set(float64(stats.Bytes))

	logging.Debug("Metrics collected: cards=%d, bytes=%d", stats.Count, stats.Bytes)
}
