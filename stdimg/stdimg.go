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

// Package stdimg resizes standard library images with the resample engine.
//
// Any image.Image is first converted to straight-alpha RGBA32, resampled,
// and returned as *image.NRGBA. The Resizer type has the
// Resize(image.Image, image.Point) shape used by terminal image renderers
// and similar callers that accept a pluggable resizer.
package stdimg

import (
	"image"
	"log/slog"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ajroetker/go-resize/buffer"
	rimage "github.com/ajroetker/go-resize/image"
	"github.com/ajroetker/go-resize/internal/errors"
	"github.com/ajroetker/go-resize/pixel"
	"github.com/ajroetker/go-resize/resample"
	"github.com/ajroetker/go-resize/sampler"
	"github.com/ajroetker/go-resize/workerpool"
)

var (
	// scratch stages unpacked channels for the fast RGBA32 codec.
	scratch = buffer.NewPool[uint32](buffer.Options{})

	// pools holds one shared worker pool per worker count.
	pools sync.Map // int -> *workerpool.Pool
)

func poolFor(workers int) *workerpool.Pool {
	if workers <= 1 {
		return nil
	}
	if p, ok := pools.Load(workers); ok {
		return p.(*workerpool.Pool)
	}
	p := workerpool.New(workers)
	if prev, loaded := pools.LoadOrStore(workers, p); loaded {
		p.Close()
		return prev.(*workerpool.Pool)
	}
	return p
}

// Resize scales img to width x height with s. A nil s selects the
// DefaultConfig sampler, Lanczos3.
func Resize(img image.Image, width, height int, s sampler.Sampler) (*image.NRGBA, error) {
	r := &Resizer{Sampler: s}
	return r.resize(img, width, height)
}

// Resizer resizes standard library images. The zero value uses
// DefaultConfig. A nil Sampler selects Config.Sampler, then Lanczos3.
type Resizer struct {
	Sampler sampler.Sampler
	Config  *resample.Config
	Logger  *slog.Logger
}

// Resize returns img scaled to size as an *image.NRGBA.
func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	m, err := r.resize(img, size.X, size.Y)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Resizer) resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.Kind(errors.ErrInvalidArgument, "stdimg: nil image")
	}
	cfg := resample.DefaultConfig()
	if r.Config != nil {
		cfg = *r.Config
	}
	s := r.Sampler
	if s == nil {
		s = cfg.Sampler
	}
	if s == nil {
		s = sampler.Lanczos3
	}

	rs, err := resample.New(pixel.ForRGBA32(cfg.NoFastPath, scratch), s, width, height,
		resample.WithConfig(cfg),
		resample.WithWorkers(poolFor(cfg.Workers)),
		resample.WithLogger(r.Logger))
	if err != nil {
		return nil, err
	}
	dst, err := rs.Resize(FromImage(img), rimage.Rect{})
	if err != nil {
		return nil, err
	}
	return ToNRGBA(dst), nil
}

// FromImage copies img into an RGBA32 image with its origin at (0, 0).
func FromImage(img image.Image) *rimage.Image[pixel.RGBA32] {
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if !ok {
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	}

	dst := rimage.NewImage[pixel.RGBA32](b.Dx(), b.Dy())
	for y := range dst.Height() {
		row := dst.RowSlice(y)
		off := n.PixOffset(n.Rect.Min.X, n.Rect.Min.Y+y)
		pix := n.Pix[off : off+4*len(row)]
		for x := range row {
			p := pix[4*x : 4*x+4 : 4*x+4]
			row[x] = pixel.RGBA32{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return dst
}

// ToNRGBA copies img into a new *image.NRGBA.
func ToNRGBA(img *rimage.Image[pixel.RGBA32]) *image.NRGBA {
	n := image.NewNRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	for y := range img.Height() {
		pix := n.Pix[y*n.Stride:]
		for x, p := range img.RowSlice(y) {
			q := pix[4*x : 4*x+4 : 4*x+4]
			q[0], q[1], q[2], q[3] = p.R, p.G, p.B, p.A
		}
	}
	return n
}

// Interpolator returns the golang.org/x/image/draw interpolator computing
// the same kernel as s.
func Interpolator(s sampler.Sampler) draw.Interpolator {
	if sampler.IsNearest(s) {
		return draw.NearestNeighbor
	}
	return &draw.Kernel{
		Support: float64(s.Radius()),
		At: func(t float64) float64 {
			return float64(s.Value(float32(t)))
		},
	}
}
