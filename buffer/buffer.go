// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package buffer provides pooled scratch slices for the resampler.
//
// Slices are grouped in power-of-two size classes, each backed by a
// sync.Pool. A rented Buffer must be released exactly once, normally with
// defer right after a successful Rent:
//
//	buf, err := pool.Rent(n)
//	if err != nil {
//	    return err
//	}
//	defer buf.Release()
//	row := buf.Slice()
//
// Requests larger than the biggest pooled class are served by a direct
// allocation that is simply dropped on Release. Requests larger than the
// hard limit fail with an ErrExhausted error.
package buffer

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-resize/internal/errors"
)

// ErrExhausted is returned when a request exceeds the pool's hard limit.
var ErrExhausted = errors.ErrExhausted

const (
	// minClassShift is the smallest pooled class, 1<<6 elements.
	minClassShift = 6

	// DefaultMaxPooledLen is the largest request served from the pool when
	// Options.MaxPooledLen is zero: 1<<24 elements.
	DefaultMaxPooledLen = 1 << 24
)

// Options configures a Pool.
type Options struct {
	// MaxPooledLen is the largest element count kept for reuse. Larger
	// requests are allocated directly. Zero means DefaultMaxPooledLen.
	MaxPooledLen int

	// Limit is the largest element count a single Rent may request.
	// Zero means unlimited.
	Limit int
}

// Stats counts pool activity since creation.
type Stats struct {
	Rented   int64 // successful Rent calls, pooled or direct
	Released int64 // Release calls that returned a live buffer
	Direct   int64 // Rent calls served by direct allocation
	Failed   int64 // Rent calls rejected by the limit
}

// Outstanding is the number of rented buffers not yet released.
func (s Stats) Outstanding() int64 {
	return s.Rented - s.Released
}

// Pool hands out reusable slices of T. It is safe for concurrent use.
type Pool[T any] struct {
	classes  []sync.Pool
	maxShift int
	limit    int

	rented   atomic.Int64
	released atomic.Int64
	direct   atomic.Int64
	failed   atomic.Int64
}

// NewPool creates a pool with the given options.
func NewPool[T any](opts Options) *Pool[T] {
	maxLen := opts.MaxPooledLen
	if maxLen <= 0 {
		maxLen = DefaultMaxPooledLen
	}
	maxShift := max(classShift(maxLen), minClassShift)
	p := &Pool[T]{
		classes:  make([]sync.Pool, maxShift-minClassShift+1),
		maxShift: maxShift,
		limit:    opts.Limit,
	}
	for i := range p.classes {
		size := 1 << (minClassShift + i)
		p.classes[i].New = func() any {
			s := make([]T, size)
			return &s
		}
	}
	return p
}

// classShift returns the smallest shift with 1<<shift >= n.
func classShift(n int) int {
	if n <= 1<<minClassShift {
		return minClassShift
	}
	return bits.Len(uint(n - 1))
}

// Rent returns a buffer whose Slice has length n. The contents are
// undefined; callers that need zeroes use Buffer.Clear.
func (p *Pool[T]) Rent(n int) (*Buffer[T], error) {
	if n < 0 {
		p.failed.Add(1)
		return nil, errors.Kind(errors.ErrInvalidArgument, "buffer: negative length %d", n)
	}
	if p.limit > 0 && n > p.limit {
		p.failed.Add(1)
		return nil, errors.Kind(ErrExhausted, "buffer: request of %d elements exceeds limit %d", n, p.limit)
	}

	shift := classShift(n)
	if shift > p.maxShift {
		p.rented.Add(1)
		p.direct.Add(1)
		return &Buffer[T]{data: make([]T, n), class: -1, pool: p}, nil
	}

	class := shift - minClassShift
	sp := p.classes[class].Get().(*[]T)
	p.rented.Add(1)
	return &Buffer[T]{data: (*sp)[:n], backing: sp, class: class, pool: p}, nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Rented:   p.rented.Load(),
		Released: p.released.Load(),
		Direct:   p.direct.Load(),
		Failed:   p.failed.Load(),
	}
}

// Buffer is one rental from a Pool.
type Buffer[T any] struct {
	data     []T
	backing  *[]T
	class    int // -1 for direct allocations
	pool     *Pool[T]
	released atomic.Bool
}

// Slice returns the rented elements. It must not be used after Release.
func (b *Buffer[T]) Slice() []T {
	return b.data
}

// Clear zeroes the rented elements.
func (b *Buffer[T]) Clear() {
	clear(b.data)
}

// Release hands the buffer back to its pool. Only the first call has an
// effect.
func (b *Buffer[T]) Release() {
	if b == nil || !b.released.CompareAndSwap(false, true) {
		return
	}
	b.pool.released.Add(1)
	if b.class >= 0 {
		b.pool.classes[b.class].Put(b.backing)
	}
	b.data = nil
	b.backing = nil
}
