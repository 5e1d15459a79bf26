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

// RGBA32 is the canonical 8-bit per channel pixel with straight alpha. Its
// memory layout matches image.NRGBA's Pix.
type RGBA32 struct {
	R, G, B, A uint8
}

// RGBA64 is a 16-bit per channel pixel with straight alpha.
type RGBA64 struct {
	R, G, B, A uint16
}

// Gray8 is an 8-bit luminance pixel. It converts to an opaque vector.
type Gray8 uint8

// Gray16 is a 16-bit luminance pixel.
type Gray16 uint16

// Rec. 601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

func luma(v Vector4) float32 {
	return lumaR*v[0] + lumaG*v[1] + lumaB*v[2]
}

// Reference conversions, exported for tests and callers building their own
// codecs.

func RGBA32ToVector(p RGBA32) Vector4 {
	return Vector4{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255, float32(p.A) / 255}
}

func RGBA32FromVector(v Vector4) RGBA32 {
	return RGBA32{R: unorm8(v[0]), G: unorm8(v[1]), B: unorm8(v[2]), A: unorm8(v[3])}
}

func rgba64ToVector(p RGBA64) Vector4 {
	return Vector4{float32(p.R) / 65535, float32(p.G) / 65535, float32(p.B) / 65535, float32(p.A) / 65535}
}

func rgba64FromVector(v Vector4) RGBA64 {
	return RGBA64{R: unorm16(v[0]), G: unorm16(v[1]), B: unorm16(v[2]), A: unorm16(v[3])}
}

func gray8ToVector(p Gray8) Vector4 {
	g := float32(p) / 255
	return Vector4{g, g, g, 1}
}

func gray8FromVector(v Vector4) Gray8 {
	return Gray8(unorm8(luma(v)))
}

func gray16ToVector(p Gray16) Vector4 {
	g := float32(p) / 65535
	return Vector4{g, g, g, 1}
}

func gray16FromVector(v Vector4) Gray16 {
	return Gray16(unorm16(luma(v)))
}

func identity(v Vector4) Vector4 { return v }

// Codecs for the predefined encodings. RGBA32Scalar is the reference codec
// for RGBA32; ForRGBA32 picks between it and the fast codec.
var (
	RGBA32Scalar Codec[RGBA32]  = NewScalar("rgba32", RGBA32ToVector, RGBA32FromVector)
	RGBA64Codec  Codec[RGBA64]  = NewScalar("rgba64", rgba64ToVector, rgba64FromVector)
	Gray8Codec   Codec[Gray8]   = NewScalar("gray8", gray8ToVector, gray8FromVector)
	Gray16Codec  Codec[Gray16]  = NewScalar("gray16", gray16ToVector, gray16FromVector)
	Vector4Codec Codec[Vector4] = NewScalar("vector4", identity, identity)
)
