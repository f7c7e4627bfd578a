package metrics

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStats struct {
	stats CacheStats
	err   error
	calls atomic.Int32
}

func (f *fakeStats) CacheStats() (CacheStats, error) {
	f.calls.Add(1)
	return f.stats, f.err
}

func TestCollectorCollect(t *testing.T) {
	provider := &fakeStats{stats: CacheStats{Count: 7, Bytes: 4096}}
	c := NewCollector(provider, time.Hour)

	c.collect()

	if got := testutil.ToFloat64(CacheCount); got != 7 {
		t.Errorf("CacheCount = %v, want 7", got)
	}
	if got := testutil.ToFloat64(CacheSizeBytes); got != 4096 {
		t.Errorf("CacheSizeBytes = %v, want 4096", got)
	}
}

func TestCollectorKeepsGaugesOnError(t *testing.T) {
	CacheCount.Set(3)
	provider := &fakeStats{err: errors.New("boom")}
	c := NewCollector(provider, time.Hour)

	c.collect()

	if got := testutil.ToFloat64(CacheCount); got != 3 {
		t.Errorf("CacheCount = %v, want unchanged 3", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect() // must not panic
}

func TestCollectorDefaultInterval(t *testing.T) {
	c := NewCollector(nil, 0)
	if c.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", c.interval)
	}
}

func TestCollectorStartStop(t *testing.T) {
	provider := &fakeStats{}
	c := NewCollector(provider, 10*time.Millisecond)

	c.Start()
	deadline := time.Now().Add(2 * time.Second)
	for provider.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()
	c.Stop()

	if provider.calls.Load() < 2 {
		t.Errorf("collector ran %d times, want at least 2", provider.calls.Load())
	}
}
