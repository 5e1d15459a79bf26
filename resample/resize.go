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

// Package resample resizes images with separable sampling kernels.
//
// A Resizer is configured once with a pixel codec, a sampler and the
// destination canvas, then reused for any number of sources:
//
//	r, err := resample.New(pixel.RGBA32Scalar, sampler.Lanczos3, 320, 240)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	dst, err := r.Resize(src, image.Rect{})
//
// The general path runs two passes over a worker pool. The horizontal pass
// convolves every source row into an intermediate plane of Vector4 pixels;
// after a barrier the vertical pass convolves plane columns into the
// destination rows. Each worker writes only its own rows, so the result is
// identical for any number of workers.
package resample

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ajroetker/go-resize/buffer"
	"github.com/ajroetker/go-resize/image"
	"github.com/ajroetker/go-resize/internal/errors"
	"github.com/ajroetker/go-resize/internal/log"
	"github.com/ajroetker/go-resize/pixel"
	"github.com/ajroetker/go-resize/sampler"
	"github.com/ajroetker/go-resize/workerpool"
)

// Error kinds returned by this package. Match them with errors.Is.
var (
	ErrInvalidArgument = errors.ErrInvalidArgument
	ErrUnsupported     = errors.ErrUnsupported
	ErrPassFailed      = errors.ErrPassFailed
)

type settings struct {
	target     image.Rect
	hasTarget  bool
	background any
	workers    *workerpool.Pool
	config     *Config
	logger     *slog.Logger
}

// Option configures a Resizer.
type Option func(*settings)

// WithTarget places the resized image at rect on the destination canvas.
// Parts of rect outside the canvas are clipped. The default is the whole
// canvas.
func WithTarget(rect image.Rect) Option {
	return func(s *settings) {
		s.target = rect
		s.hasTarget = true
	}
}

// WithBackground sets the value of canvas pixels outside the target. Its
// type must match the Resizer's pixel type.
func WithBackground[T any](bg T) Option {
	return func(s *settings) { s.background = bg }
}

// WithWorkers runs the passes on pool. The pool stays owned by the caller.
func WithWorkers(pool *workerpool.Pool) Option {
	return func(s *settings) { s.workers = pool }
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.config = &cfg }
}

// WithLogger sets the logger for debug traces. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// Resizer resizes images of pixel type T onto a fixed-size canvas.
// It is safe for concurrent use.
type Resizer[T any] struct {
	codec      pixel.Codec[T]
	sampler    sampler.Sampler
	width      int
	height     int
	target     image.Rect
	background T

	workers    *workerpool.Pool
	ownWorkers bool
	weights    *buffer.Pool[float32]
	vectors    *buffer.Pool[pixel.Vector4]
	logger     *slog.Logger
}

// Stats reports the scratch pool activity of a Resizer.
type Stats struct {
	Weights buffer.Stats
	Vectors buffer.Stats
}

// Outstanding is the number of scratch buffers currently rented.
func (s Stats) Outstanding() int64 {
	return s.Weights.Outstanding() + s.Vectors.Outstanding()
}

// New returns a Resizer producing width x height canvases.
func New[T any](codec pixel.Codec[T], s sampler.Sampler, width, height int, opts ...Option) (*Resizer[T], error) {
	if codec == nil {
		return nil, errors.Kind(ErrUnsupported, "resample: no pixel codec")
	}
	if s == nil {
		return nil, errors.Kind(ErrInvalidArgument, "resample: nil sampler")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Kind(ErrInvalidArgument, "resample: canvas size %dx%d", width, height)
	}

	var st settings
	for _, opt := range opts {
		opt(&st)
	}
	cfg := DefaultConfig()
	if st.config != nil {
		cfg = *st.config
	}

	r := &Resizer[T]{
		codec:   codec,
		sampler: s,
		width:   width,
		height:  height,
		target:  image.XYWH(0, 0, width, height),
		weights: buffer.NewPool[float32](cfg.bufferOptions()),
		vectors: buffer.NewPool[pixel.Vector4](cfg.bufferOptions()),
		logger:  log.OrDiscard(st.logger),
	}
	if st.hasTarget {
		if st.target.IsEmpty() {
			return nil, errors.Kind(ErrInvalidArgument, "resample: empty target %+v", st.target)
		}
		r.target = st.target
	}
	if st.background != nil {
		bg, ok := st.background.(T)
		if !ok {
			return nil, errors.Kind(ErrInvalidArgument, "resample: background of type %T for %s pixels", st.background, codec.Name())
		}
		r.background = bg
	}
	switch {
	case st.workers != nil:
		r.workers = st.workers
	case cfg.Workers > 1:
		r.workers = workerpool.New(cfg.Workers)
		r.ownWorkers = true
	}
	return r, nil
}

// Close stops the worker pool created by New. A pool passed with
// WithWorkers is left running.
func (r *Resizer[T]) Close() {
	if r.ownWorkers {
		r.workers.Close()
	}
}

// Width returns the canvas width.
func (r *Resizer[T]) Width() int { return r.width }

// Height returns the canvas height.
func (r *Resizer[T]) Height() int { return r.height }

// Target returns the destination rectangle on the canvas.
func (r *Resizer[T]) Target() image.Rect { return r.target }

// Stats returns a snapshot of the scratch pool counters.
func (r *Resizer[T]) Stats() Stats {
	return Stats{Weights: r.weights.Stats(), Vectors: r.vectors.Stats()}
}

// Resize resamples the sourceRect region of src onto a new canvas. An empty
// sourceRect selects the whole source.
//
// If src already has the canvas size and sourceRect equals the target, src
// itself is returned. Otherwise src is only read. A panic raised while
// converting pixels is returned as an ErrPassFailed error after every
// scratch buffer has been released.
func (r *Resizer[T]) Resize(src *image.Image[T], sourceRect image.Rect) (dst *image.Image[T], err error) {
	if src.Empty() || src.Width() <= 0 || src.Height() <= 0 {
		return nil, errors.Kind(ErrInvalidArgument, "resample: empty source")
	}
	if sourceRect.IsEmpty() {
		sourceRect = src.Bounds()
	}
	if !sourceRect.In(src.Bounds()) {
		return nil, errors.Kind(ErrInvalidArgument, "resample: source rect %+v outside %dx%d source", sourceRect, src.Width(), src.Height())
	}

	if src.Width() == r.width && src.Height() == r.height && sourceRect == r.target {
		log.Debug(r.logger, "resample: identity", "width", r.width, "height", r.height)
		return src, nil
	}

	start := time.Now()
	path := "weighted"
	if sampler.IsNearest(r.sampler) {
		path = "nearest"
	}
	defer func() {
		if rec := recover(); rec != nil {
			dst = nil
			err = errors.Recovered(ErrPassFailed, rec)
		}
		if err != nil {
			log.IsErr(r.logger, slog.LevelDebug, err, "sampler", r.sampler.String())
			return
		}
		log.Debug(r.logger, "resample: done",
			"sampler", r.sampler.String(),
			"codec", r.codec.Name(),
			"path", path,
			"source", sourceRect,
			"target", r.target,
			"elapsed", time.Since(start))
	}()

	dst = image.NewImage[T](r.width, r.height)
	dst.Fill(r.background)

	window := r.target.Intersect(dst.Bounds())
	if window.IsEmpty() {
		return dst, nil
	}

	if path == "nearest" {
		r.nearest(src, sourceRect, dst, window)
		return dst, nil
	}
	if err := r.weighted(src, sourceRect, dst, window); err != nil {
		return nil, err
	}
	return dst, nil
}

// nearestBatch is the number of rows a worker claims at a time in the
// nearest pass.
const nearestBatch = 16

// nearest copies the source pixel whose cell contains each destination
// pixel.
func (r *Resizer[T]) nearest(src *image.Image[T], sourceRect image.Rect, dst *image.Image[T], window image.Rect) {
	fx := float32(sourceRect.Width()) / float32(r.target.Width())
	fy := float32(sourceRect.Height()) / float32(r.target.Height())

	r.workers.ParallelForAtomicBatched(window.Y0, window.Y1, nearestBatch, func(start, end int) {
		for y := start; y < end; y++ {
			sy := min(int(float32(y-r.target.Y0)*fy)+sourceRect.Y0, sourceRect.Y1-1)
			in := src.RowSlice(sy)
			out := dst.RowSlice(y)
			for x := window.X0; x < window.X1; x++ {
				sx := min(int(float32(x-r.target.X0)*fx)+sourceRect.X0, sourceRect.X1-1)
				out[x] = in[sx]
			}
		}
	})
}

// passError keeps the first error reported by the workers of a pass.
type passError struct {
	mu  sync.Mutex
	err error
}

func (p *passError) set(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

func (r *Resizer[T]) weighted(src *image.Image[T], sourceRect image.Rect, dst *image.Image[T], window image.Rect) error {
	hTable, err := BuildWeights(sourceRect.Width(), r.target.Width(), r.sampler, r.weights)
	if err != nil {
		return err
	}
	defer hTable.Release()

	vTable, err := BuildWeights(sourceRect.Height(), r.target.Height(), r.sampler, r.weights)
	if err != nil {
		return err
	}
	defer vTable.Release()

	plane, err := r.vectors.Rent(r.width * sourceRect.Height())
	if err != nil {
		return err
	}
	defer plane.Release()
	ps := plane.Slice()

	// Horizontal pass: one plane row per source row.
	var perr passError
	r.workers.ParallelFor(sourceRect.Height(), func(start, end int) {
		row, err := r.vectors.Rent(sourceRect.Width())
		if err != nil {
			perr.set(err)
			return
		}
		defer row.Release()
		in := row.Slice()

		for sy := start; sy < end; sy++ {
			r.codec.BulkToVector(src.RowSlice(sourceRect.Y0 + sy)[sourceRect.X0:sourceRect.X1], in)
			out := ps[sy*r.width : (sy+1)*r.width]
			for x := window.X0; x < window.X1; x++ {
				out[x] = hTable.Entries[x-r.target.X0].convolve(in)
			}
		}
	})
	if perr.err != nil {
		return perr.err
	}

	// Vertical pass: plane columns into destination rows.
	r.workers.ParallelForRange(window.Y0, window.Y1, func(start, end int) {
		row, err := r.vectors.Rent(window.Width())
		if err != nil {
			perr.set(err)
			return
		}
		defer row.Release()
		acc := row.Slice()

		for y := start; y < end; y++ {
			row.Clear()
			e := vTable.Entries[y-r.target.Y0]
			for i, w := range e.Values {
				in := ps[(e.Left+i)*r.width+window.X0 : (e.Left+i)*r.width+window.X1]
				for x := range acc {
					acc[x] = pixel.MulAdd(acc[x], in[x], w)
				}
			}
			r.codec.BulkFromVector(acc, dst.RowSlice(y)[window.X0:window.X1])
		}
	})
	return perr.err
}

// Apply resizes the image held by h and, on success, commits the result
// with h.Replace. On failure h is left unchanged.
func Apply[T any](h *image.Handle[T], r *Resizer[T], sourceRect image.Rect) error {
	dst, err := r.Resize(h.Image(), sourceRect)
	if err != nil {
		return err
	}
	h.Replace(dst)
	return nil
}
