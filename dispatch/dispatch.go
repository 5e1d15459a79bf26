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

// Package dispatch detects, once per process, which conversion paths the
// resampler may use. Selection happens at configuration time: callers ask
// for a codec or a worker count and receive the best one for this CPU,
// never a per-pixel type check.
//
// Setting RESIZE_NO_SIMD to a true value forces the scalar paths, which is
// useful for testing and for bisecting numerical differences.
package dispatch

import (
	"os"
	"runtime"
	"strconv"
)

// Level represents the widest vector instruction set detected.
type Level int

const (
	// LevelScalar indicates no vector unit is used, or it was disabled.
	LevelScalar Level = iota

	// LevelSSE2 is the x86-64 baseline.
	LevelSSE2

	// LevelAVX2 indicates 256-bit AVX2 with FMA.
	LevelAVX2

	// LevelAVX512 indicates AVX-512F.
	LevelAVX512

	// LevelNEON indicates ARM Advanced SIMD.
	LevelNEON
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Lanes returns the number of float32 lanes in one vector register at
// this level. Conversion kernels unroll to match it.
func (l Level) Lanes() int {
	switch l {
	case LevelSSE2, LevelNEON:
		return 4
	case LevelAVX2:
		return 8
	case LevelAVX512:
		return 16
	default:
		return 1
	}
}

// NoSimdEnvVar disables every fast path when set to a true value.
const NoSimdEnvVar = "RESIZE_NO_SIMD"

// currentLevel is set by init() in dispatch_*.go files.
var currentLevel Level

// CurrentLevel returns the detected level.
func CurrentLevel() Level {
	return currentLevel
}

// CurrentName returns the name of the detected level, e.g. "avx2".
func CurrentName() string {
	return currentLevel.String()
}

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// NoSimdEnv checks if RESIZE_NO_SIMD is set.
func NoSimdEnv() bool {
	val := os.Getenv(NoSimdEnvVar)
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// Redetect re-runs detection, honouring the current environment. Tests use
// it after changing RESIZE_NO_SIMD.
func Redetect() Level {
	if NoSimdEnv() {
		currentLevel = LevelScalar
		return currentLevel
	}
	currentLevel = detect()
	return currentLevel
}

func init() {
	Redetect()
}
