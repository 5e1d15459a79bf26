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

// Package pixel converts between pixel encodings and the normalized
// four-channel float vector the resampler accumulates in.
//
// Every encoding is described by a Codec. The scalar conversions are the
// reference; the bulk conversions work on whole rows and may be replaced by
// faster routines for a specific encoding. RGBA32Fast is such a codec: its
// BulkToVector builds floats directly from the channel bytes.
package pixel

// Vector4 holds r, g, b, a, each nominally in [0, 1].
type Vector4 [4]float32

// MulAdd returns acc + v*w, the inner step of every weighted sum.
func MulAdd(acc, v Vector4, w float32) Vector4 {
	acc[0] += v[0] * w
	acc[1] += v[1] * w
	acc[2] += v[2] * w
	acc[3] += v[3] * w
	return acc
}

// Codec converts one pixel encoding T to and from Vector4.
//
// The bulk methods convert min(len(src), len(dst)) elements and write only
// into dst. Implementations must be safe for concurrent use.
type Codec[T any] interface {
	ToVector(p T) Vector4
	FromVector(v Vector4) T
	BulkToVector(src []T, dst []Vector4)
	BulkFromVector(src []Vector4, dst []T)
	Name() string
}

// Scalar is a Codec built from a pair of per-pixel functions. Its bulk
// methods loop over the scalar ones.
type Scalar[T any] struct {
	name string
	to   func(T) Vector4
	from func(Vector4) T
}

// NewScalar returns a Codec for T from its per-pixel conversions.
func NewScalar[T any](name string, to func(T) Vector4, from func(Vector4) T) Scalar[T] {
	return Scalar[T]{name: name, to: to, from: from}
}

func (c Scalar[T]) Name() string { return c.name }

func (c Scalar[T]) ToVector(p T) Vector4 { return c.to(p) }

func (c Scalar[T]) FromVector(v Vector4) T { return c.from(v) }

func (c Scalar[T]) BulkToVector(src []T, dst []Vector4) {
	n := min(len(src), len(dst))
	for i := range n {
		dst[i] = c.to(src[i])
	}
}

func (c Scalar[T]) BulkFromVector(src []Vector4, dst []T) {
	n := min(len(src), len(dst))
	for i := range n {
		dst[i] = c.from(src[i])
	}
}

// clamp01 limits x to [0, 1]; NaN maps to 0.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// unorm8 rounds x in [0,1] to the nearest byte.
func unorm8(x float32) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}

// unorm16 rounds x in [0,1] to the nearest uint16.
func unorm16(x float32) uint16 {
	return uint16(clamp01(x)*65535 + 0.5)
}
