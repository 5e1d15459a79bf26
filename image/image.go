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

// Package image provides the 2D pixel buffer the resampler reads and writes.
//
// Image[T] stores pixels of any encoding T in rows padded to a 64-byte
// boundary, so that rows handed to different workers never share a cache
// line. Rows are accessed as slices:
//
//	img := image.NewImage[pixel.RGBA32](640, 480)
//	for y := 0; y < img.Height(); y++ {
//	    row := img.RowSlice(y)
//	    // fill row
//	}
//
// A Handle is the caller-owned reference to the current buffer of an
// image. Resizing produces a new Image; committing it is a single atomic
// Replace on the Handle.
package image

import (
	"sync/atomic"
	"unsafe"
)

// rowAlign is the byte alignment of each row start.
const rowAlign = 64

// Image is a 2D array of T with padded rows.
type Image[T any] struct {
	data   []T
	width  int
	height int
	stride int // elements per row (includes padding)
}

// NewImage creates a zeroed image with the specified dimensions.
// Non-positive dimensions yield an empty 0x0 image.
func NewImage[T any](width, height int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	stride := width
	if elemSize > 0 && elemSize <= rowAlign && rowAlign%elemSize == 0 {
		perLine := rowAlign / elemSize
		stride = ((width + perLine - 1) / perLine) * perLine
	}

	return &Image[T]{
		data:   make([]T, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// FromPixels wraps pix, laid out row by row without padding. It panics if
// pix is shorter than width*height.
func FromPixels[T any](width, height int, pix []T) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}
	if len(pix) < width*height {
		panic("image: pixel slice too short")
	}
	return &Image[T]{
		data:   pix[:width*height],
		width:  width,
		height: height,
		stride: width,
	}
}

// Width returns the image width in pixels.
func (img *Image[T]) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image[T]) Height() int {
	return img.height
}

// Empty reports whether the image holds no pixels.
func (img *Image[T]) Empty() bool {
	return img == nil || img.data == nil
}

// RowSlice returns a mutable slice for the specified row,
// limited to the actual image width (excluding padding).
func (img *Image[T]) RowSlice(y int) []T {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.stride
	return img.data[start : start+img.width : start+img.width]
}

// At returns the value at position (x, y), or the zero T out of bounds.
func (img *Image[T]) At(x, y int) T {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		var zero T
		return zero
	}
	return img.data[y*img.stride+x]
}

// Set sets the value at position (x, y). Out of bounds writes are ignored.
func (img *Image[T]) Set(x, y int, value T) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return
	}
	img.data[y*img.stride+x] = value
}

// SameSize returns true if both images have the same dimensions.
func SameSize[T, U any](a *Image[T], b *Image[U]) bool {
	return a.width == b.width && a.height == b.height
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	if img.data == nil {
		return &Image[T]{}
	}

	clone := &Image[T]{
		data:   make([]T, len(img.data)),
		width:  img.width,
		height: img.height,
		stride: img.stride,
	}
	copy(clone.data, img.data)
	return clone
}

// Equal reports whether both images have the same size and pixels,
// ignoring row padding.
func Equal[T comparable](a, b *Image[T]) bool {
	if !SameSize(a, b) {
		return false
	}
	for y := range a.height {
		ra, rb := a.RowSlice(y), b.RowSlice(y)
		for x := range ra {
			if ra[x] != rb[x] {
				return false
			}
		}
	}
	return true
}

// Fill sets all pixels to the specified value.
func (img *Image[T]) Fill(value T) {
	for i := range img.data {
		img.data[i] = value
	}
}

// Bounds returns the bounding rectangle of the image.
func (img *Image[T]) Bounds() Rect {
	return Rect{X0: 0, Y0: 0, X1: img.width, Y1: img.height}
}

// Rect defines a rectangular region within an image.
type Rect struct {
	X0, Y0 int // Top-left corner (inclusive)
	X1, Y1 int // Bottom-right corner (exclusive)
}

// XYWH returns the rectangle at (x, y) with the given size.
func XYWH(x, y, width, height int) Rect {
	return Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.X1 - r.X0
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Y1 - r.Y0
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersect returns the intersection of two rectangles.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X0, other.X0)
	y0 := max(r.Y0, other.Y0)
	x1 := min(r.X1, other.X1)
	y1 := min(r.Y1, other.Y1)
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// In reports whether r lies entirely within other.
func (r Rect) In(other Rect) bool {
	return r.X0 >= other.X0 && r.Y0 >= other.Y0 && r.X1 <= other.X1 && r.Y1 <= other.Y1
}

// Handle is a caller-owned reference to an image's current buffer. Image
// may be called concurrently with Replace. Buffers are never modified by the
// handle, so a reader holding a previous buffer keeps a valid image until it
// drops its reference.
type Handle[T any] struct {
	cur atomic.Pointer[Image[T]]
}

// NewHandle returns a handle owning img.
func NewHandle[T any](img *Image[T]) *Handle[T] {
	h := &Handle[T]{}
	h.cur.Store(img)
	return h
}

// Image returns the current buffer.
func (h *Handle[T]) Image() *Image[T] {
	return h.cur.Load()
}

// Replace installs img as the current buffer and returns the previous one.
// The handle drops its reference to the previous buffer; its storage is
// reclaimed once no reader holds it.
func (h *Handle[T]) Replace(img *Image[T]) *Image[T] {
	return h.cur.Swap(img)
}
