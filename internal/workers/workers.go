package workers

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"sync"
)

// OverrideEnv names the variable that pins the worker count.
const OverrideEnv = "RENDER_WORKERS"

// Count returns the number of workers for a task type, based on GOMAXPROCS
// so container CPU limits are respected.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//   - 1.5 for mixed tasks
//
// limit caps the result; use 0 for no cap. RENDER_WORKERS overrides the
// calculation but is still capped by limit.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns worker count for mixed tasks (1.5 per CPU). Card
// rendering is mixed: two HTTP round trips followed by image work.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}

// Run calls fn for every index in [0, jobs) using at most n goroutines and
// waits for all of them. Indexes not yet started when ctx is canceled are
// skipped.
func Run(ctx context.Context, n, jobs int, fn func(ctx context.Context, i int)) {
	if jobs <= 0 {
		return
	}
	if n < 1 {
		n = 1
	}
	if n > jobs {
		n = jobs
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				fn(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < jobs; i++ {
		select {
		case next <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()
}
