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

package pixel

import (
	"math"

	"github.com/ajroetker/go-resize/buffer"
	"github.com/ajroetker/go-resize/dispatch"
)

// The byte-to-float trick: 32768 is 2^15, so the low eight mantissa bits of
// its float32 encoding are worth 2^-8 each. OR-ing a byte b into them gives
// exactly 32768 + b/256; subtracting 32768 and rescaling by 256/255 yields
// b/255 without an integer to float conversion.
const (
	MagicBits  uint32  = 0x47000000 // math.Float32bits(32768)
	magicFloat float32 = 32768
	magicScale float32 = 256.0 / 255.0
)

// fastChunk is the number of pixels unpacked per scratch rental.
const fastChunk = 1024

// RGBA32Fast is the RGBA32 codec with the byte-to-float fast path. ToVector
// and BulkToVector use the trick; FromVector and BulkFromVector are the
// reference ones.
type RGBA32Fast struct {
	Scalar[RGBA32]
	scratch *buffer.Pool[uint32]
	unroll  int // pixels per kernel step: 1, 4 or 8
}

// NewRGBA32Fast returns the fast codec with its kernel sized for the
// detected CPU level. Unpacked channel words are staged in scratch; a nil
// pool gets a private one.
func NewRGBA32Fast(scratch *buffer.Pool[uint32]) *RGBA32Fast {
	return newRGBA32Fast(dispatch.CurrentLevel(), scratch)
}

func newRGBA32Fast(level dispatch.Level, scratch *buffer.Pool[uint32]) *RGBA32Fast {
	if scratch == nil {
		scratch = buffer.NewPool[uint32](buffer.Options{})
	}
	return &RGBA32Fast{
		Scalar:  NewScalar("rgba32-fast", RGBA32ToVector, RGBA32FromVector),
		scratch: scratch,
		unroll:  unrollFor(level),
	}
}

// unrollFor returns the pixels converted per step at level. A pixel fills
// four float32 lanes, so 256-bit and wider units take 8 pixels per step and
// 128-bit units take 4.
func unrollFor(level dispatch.Level) int {
	switch lanes := level.Lanes(); {
	case lanes >= 8:
		return 8
	case lanes >= 4:
		return 4
	default:
		return 1
	}
}

// ForRGBA32 returns the fast codec when the detected CPU level has a vector
// unit and the caller did not disable it, and the reference codec otherwise.
func ForRGBA32(noFastPath bool, scratch *buffer.Pool[uint32]) Codec[RGBA32] {
	return forLevel(dispatch.CurrentLevel(), noFastPath, scratch)
}

func forLevel(level dispatch.Level, noFastPath bool, scratch *buffer.Pool[uint32]) Codec[RGBA32] {
	if noFastPath || level == dispatch.LevelScalar {
		return RGBA32Scalar
	}
	return newRGBA32Fast(level, scratch)
}

// UnpackMagic writes MagicBits|channel for every channel of src into dst,
// four words per pixel. dst must hold 4*len(src) words.
func UnpackMagic(src []RGBA32, dst []uint32) {
	if len(src) == 0 {
		return
	}
	_ = dst[4*len(src)-1]
	for i, p := range src {
		d := dst[4*i : 4*i+4 : 4*i+4]
		d[0] = MagicBits | uint32(p.R)
		d[1] = MagicBits | uint32(p.G)
		d[2] = MagicBits | uint32(p.B)
		d[3] = MagicBits | uint32(p.A)
	}
}

func magicToFloat(w uint32) float32 {
	return (math.Float32frombits(w) - magicFloat) * magicScale
}

// BithackToVector converts a single pixel with the magic-float trick.
func BithackToVector(p RGBA32) Vector4 {
	return Vector4{
		magicToFloat(MagicBits | uint32(p.R)),
		magicToFloat(MagicBits | uint32(p.G)),
		magicToFloat(MagicBits | uint32(p.B)),
		magicToFloat(MagicBits | uint32(p.A)),
	}
}

// ToVector converts p with the magic-float trick.
func (c *RGBA32Fast) ToVector(p RGBA32) Vector4 {
	return BithackToVector(p)
}

// BulkToVector converts src in chunks, staging the unpacked words in a
// rented scratch buffer that is returned before BulkToVector returns.
func (c *RGBA32Fast) BulkToVector(src []RGBA32, dst []Vector4) {
	n := min(len(src), len(dst))
	if n == 0 {
		return
	}
	chunk := min(n, fastChunk)
	words, err := c.scratch.Rent(4 * chunk)
	if err != nil {
		// The pool refused even one chunk; convert pixel by pixel.
		for i := range n {
			dst[i] = BithackToVector(src[i])
		}
		return
	}
	defer words.Release()
	w := words.Slice()

	for off := 0; off < n; off += chunk {
		m := min(chunk, n-off)
		UnpackMagic(src[off:off+m], w)
		c.convert(w[:4*m], dst[off:off+m])
	}
}

// convert turns unpacked words into vectors, unroll pixels at a time, with
// a one-pixel tail.
func (c *RGBA32Fast) convert(w []uint32, out []Vector4) {
	i := 0
	switch c.unroll {
	case 8:
		for ; i+8 <= len(out); i += 8 {
			convert8(w[4*i:4*i+32], out[i:i+8])
		}
	case 4:
		for ; i+4 <= len(out); i += 4 {
			convert4(w[4*i:4*i+16], out[i:i+4])
		}
	}
	for ; i < len(out); i++ {
		out[i] = wordsToVector(w[4*i : 4*i+4])
	}
}

func wordsToVector(q []uint32) Vector4 {
	_ = q[3]
	return Vector4{magicToFloat(q[0]), magicToFloat(q[1]), magicToFloat(q[2]), magicToFloat(q[3])}
}

func convert4(w []uint32, out []Vector4) {
	_ = w[15]
	_ = out[3]
	out[0] = wordsToVector(w[0:4])
	out[1] = wordsToVector(w[4:8])
	out[2] = wordsToVector(w[8:12])
	out[3] = wordsToVector(w[12:16])
}

func convert8(w []uint32, out []Vector4) {
	_ = w[31]
	_ = out[7]
	convert4(w[0:16], out[0:4])
	convert4(w[16:32], out[4:8])
}
