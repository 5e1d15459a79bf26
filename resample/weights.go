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

package resample

import (
	"math"

	"github.com/ajroetker/go-resize/buffer"
	"github.com/ajroetker/go-resize/internal/errors"
	"github.com/ajroetker/go-resize/pixel"
	"github.com/ajroetker/go-resize/sampler"
)

// defaultWeights backs weight tables built without an explicit pool.
var defaultWeights = buffer.NewPool[float32](buffer.Options{})

// WeightEntry holds the contributions of a contiguous source window to one
// destination index.
type WeightEntry struct {
	Left   int       // first source index of the window
	Count  int       // number of source indices in the window
	Values []float32 // len(Values) == Count
}

// convolve returns the weighted sum of row[Left : Left+Count].
func (e WeightEntry) convolve(row []pixel.Vector4) pixel.Vector4 {
	var acc pixel.Vector4
	win := row[e.Left : e.Left+e.Count]
	for i, w := range e.Values {
		acc = pixel.MulAdd(acc, win[i], w)
	}
	return acc
}

// WeightTable maps every destination index of one axis to its source
// window. Values of all entries live in one rented block that Release
// returns to the pool.
type WeightTable struct {
	Entries         []WeightEntry
	SourceSize      int
	DestinationSize int

	block *buffer.Buffer[float32]
}

// Release returns the value block to its pool. Entries must not be used
// afterwards. Only the first call has an effect.
func (t *WeightTable) Release() {
	if t == nil {
		return
	}
	t.block.Release()
	t.Entries = nil
}

// BuildWeights computes the weight table for resampling sourceSize samples
// to destinationSize samples with s.
//
// When downscaling, the kernel is stretched by the scale ratio so that it
// acts as a low-pass filter. Each window is normalized to sum to 1, unless
// its raw sum is not positive, in which case the raw values are kept.
//
// A nil pool uses a package-level pool. A rent failure from the pool is
// returned unchanged.
func BuildWeights(sourceSize, destinationSize int, s sampler.Sampler, pool *buffer.Pool[float32]) (*WeightTable, error) {
	if sourceSize <= 0 || destinationSize <= 0 {
		return nil, errors.Kind(errors.ErrInvalidArgument, "resample: sizes must be positive, got %d -> %d", sourceSize, destinationSize)
	}
	if s == nil {
		return nil, errors.Kind(errors.ErrInvalidArgument, "resample: nil sampler")
	}
	if s.Radius() <= 0 {
		return nil, errors.Kind(errors.ErrInvalidArgument, "resample: sampler %s has non-positive radius", s)
	}
	if pool == nil {
		pool = defaultWeights
	}

	ratio := float32(sourceSize) / float32(destinationSize)
	scale := max(ratio, 1)
	radius := float32(math.Ceil(float64(scale * s.Radius())))
	stride := min(sourceSize, 2*int(radius)+1)

	block, err := pool.Rent(destinationSize * stride)
	if err != nil {
		return nil, err
	}
	values := block.Slice()

	t := &WeightTable{
		Entries:         make([]WeightEntry, destinationSize),
		SourceSize:      sourceSize,
		DestinationSize: destinationSize,
		block:           block,
	}

	for i := range t.Entries {
		center := (float32(i)+0.5)*ratio - 0.5
		left := max(0, int(math.Ceil(float64(center-radius))))
		right := min(sourceSize-1, int(math.Floor(float64(center+radius))))
		count := right - left + 1

		w := values[i*stride : i*stride+count : i*stride+count]
		var sum float32
		for j := range w {
			v := s.Value((float32(left+j) - center) / scale)
			w[j] = v
			sum += v
		}
		if sum > 0 {
			for j := range w {
				w[j] /= sum
			}
		}

		t.Entries[i] = WeightEntry{Left: left, Count: count, Values: w}
	}
	return t, nil
}
