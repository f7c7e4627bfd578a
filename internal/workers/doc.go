/*
Package workers sizes and runs bounded worker pools.

Inside a container, runtime.NumCPU reports the host's CPUs while GOMAXPROCS
follows the cgroup CPU limit (Go 1.19+). Count and its helpers derive the
worker count from GOMAXPROCS:

	n := workers.ForMixed(8) // 1.5 workers per CPU, at most 8

Operators can pin the count with RENDER_WORKERS:

	env:
	- name: RENDER_WORKERS
	  value: "4"

The override is still capped by the limit passed in.

Run fans a fixed number of jobs out over n goroutines:

	workers.Run(ctx, n, len(ids), func(ctx context.Context, i int) {
		results[i] = renderer.Generate(ctx, ids[i], image.Point{})
	})
*/
package workers
