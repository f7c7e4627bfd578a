// Package memory sizes the Go heap for containers and pauses rendering
// under memory pressure.
//
// Card compositing holds several full-canvas bitmaps at once (background,
// blur buffers, shadow, output), so a burst of concurrent renders can push
// a small container past its limit. GOMEMLIMIT is not derived from cgroup
// limits automatically the way GOMAXPROCS is.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main:
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and is only reported.
//   - MEMORY_LIMIT: container limit in bytes, usually from the Kubernetes
//     Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap
//     (default 0.85).
//
// # Backpressure
//
// A [Monitor] samples heap allocation against the limit. Above the critical
// water mark it pauses and forces a GC; it resumes once usage drops below
// the high water mark. Renders call [Monitor.Wait] before decoding so that
// new bitmaps are not allocated while paused. Without a limit the monitor is
// disabled and Wait never blocks.
package memory
