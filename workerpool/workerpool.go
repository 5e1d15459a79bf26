// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// row-parallel passes of the resampler. A Pool is created once and shared
// by every resize that uses it, so no goroutines are spawned per call.
//
// Every ParallelFor variant is a barrier: it returns only after all chunks
// have finished. A panic inside a chunk does not kill the worker; the first
// panic value is re-raised on the calling goroutine once the barrier is
// reached, so the caller's deferred cleanup always runs.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        processRow(y)
//	    }
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single chunk of a parallel operation.
type workItem struct {
	fn      func()
	barrier *barrier
}

// barrier joins the chunks of one parallel operation and keeps the first
// panic raised by any of them.
type barrier struct {
	wg       sync.WaitGroup
	once     sync.Once
	panicked atomic.Bool
	value    any
}

func (b *barrier) run(fn func()) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.once.Do(func() {
				b.value = r
				b.panicked.Store(true)
			})
		}
	}()
	fn()
}

// wait blocks until every chunk is done and re-panics on the caller if a
// chunk panicked.
func (b *barrier) wait() {
	b.wg.Wait()
	if b.panicked.Load() {
		panic(b.value)
	}
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.barrier.run(item.fn)
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// sequential reports whether work must run on the calling goroutine.
func (p *Pool) sequential() bool {
	return p == nil || p.closed.Load()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
// A nil or closed Pool runs fn sequentially.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForRange(0, n, fn)
}

// ParallelForRange is ParallelFor over the index range [lo, hi).
func (p *Pool) ParallelForRange(lo, hi int, fn func(start, end int)) {
	n := hi - lo
	if n <= 0 {
		return
	}

	if p.sequential() {
		fn(lo, hi)
		return
	}

	// Don't use more workers than items
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(lo, hi)
		return
	}

	chunkSize := (n + workers - 1) / workers

	b := &barrier{}
	b.wg.Add(workers)

	for i := range workers {
		start := lo + i*chunkSize
		end := min(start+chunkSize, hi)
		if start >= hi {
			// No work for this worker
			b.wg.Done()
			continue
		}

		p.workC <- workItem{
			fn: func() {
				fn(start, end)
			},
			barrier: b,
		}
	}

	b.wait()
}

// ParallelForAtomicBatched executes fn for batches of indices in [lo, hi)
// using atomic work stealing, grabbing batchSize items per atomic operation.
// This balances load when the cost per index varies. Once a batch panics,
// the remaining batches are skipped and the panic reaches the caller.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelForAtomicBatched(lo, hi, batchSize int, fn func(start, end int)) {
	n := hi - lo
	if n <= 0 {
		return
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	if p.sequential() {
		fn(lo, hi)
		return
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 {
		fn(lo, hi)
		return
	}

	var nextBatch atomic.Int64
	b := &barrier{}
	b.wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					batch := int(nextBatch.Add(1)) - 1
					start := lo + batch*batchSize
					if start >= hi || b.panicked.Load() {
						return
					}
					end := min(start+batchSize, hi)
					fn(start, end)
				}
			},
			barrier: b,
		}
	}

	b.wait()
}
