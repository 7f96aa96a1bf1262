// Package concurrency provides a small index-partitioned worker pool used
// to parallelize the two CPU-bound hot spots in the cascade trainer: per-
// feature threshold recomputation each AdaBoost round, and multi-scale
// window classification at detection time (spec §5).
//
// The pattern - a sync.WaitGroup plus a buffered semaphore channel bounding
// concurrency to runtime.NumCPU() - is the one used for independent,
// embarrassingly-parallel batches of work throughout the example pack (see
// soockee-pixel-bot-go's MultiScaleMatchParallel and tgimg-core's
// Pipeline.Run).
package concurrency

import (
	"runtime"
	"sync"
)

// Range runs fn(i) for every i in [0, n) across a worker pool bounded to
// runtime.NumCPU() goroutines, and blocks until all have completed. fn must
// be safe to call concurrently for distinct i; the pool guarantees that no
// two goroutines are ever given the same index, so a scheme where each
// worker only writes to the slot it owns (e.g. feature[i].Threshold) needs
// no further synchronization.
func Range(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(idx)
		}(i)
	}
	wg.Wait()
}
