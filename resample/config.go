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
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ajroetker/go-resize/buffer"
	"github.com/ajroetker/go-resize/dispatch"
	"github.com/ajroetker/go-resize/internal/errors"
	"github.com/ajroetker/go-resize/internal/log"
	"github.com/ajroetker/go-resize/pixel"
	"github.com/ajroetker/go-resize/sampler"
)

// Environment variables read by LoadConfig.
const (
	EnvWorkers    = "RESIZE_WORKERS"
	EnvNoSimd     = dispatch.NoSimdEnvVar
	EnvPoolMax    = "RESIZE_POOL_MAX"
	EnvAllocLimit = "RESIZE_ALLOC_LIMIT"
	EnvLogLevel   = "RESIZE_LOG_LEVEL"
	EnvSampler    = "RESIZE_SAMPLER"
)

// Config holds the process-level tuning of a Resizer.
type Config struct {
	// Workers is the size of the worker pool a Resizer creates when none is
	// given with WithWorkers. 1 or less runs both passes on the caller.
	Workers int

	// NoFastPath selects the reference pixel conversions.
	NoFastPath bool

	// MaxPooledLen is the largest scratch request kept for reuse, in
	// elements.
	MaxPooledLen int

	// AllocLimit caps a single scratch request, in elements. Zero means no
	// limit.
	AllocLimit int

	// Sampler is the filter used by callers that do not choose one, such as
	// stdimg.Resize with a nil Sampler.
	Sampler sampler.Sampler

	LogLevel slog.Level
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Workers:      dispatch.DefaultWorkers(),
		NoFastPath:   dispatch.NoSimdEnv(),
		MaxPooledLen: buffer.DefaultMaxPooledLen,
		Sampler:      sampler.Lanczos3,
		LogLevel:     slog.LevelInfo,
	}
}

// LoadConfig starts from DefaultConfig and applies the RESIZE_* environment
// variables. The given dotenv files are loaded first without overriding
// variables already set; with no files, a .env in the working directory is
// loaded if present.
func LoadConfig(files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, errors.Wrap(err, 0)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, 0)
	}

	cfg := DefaultConfig()
	var err error
	if cfg.Workers, err = envInt(EnvWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.MaxPooledLen, err = envInt(EnvPoolMax, cfg.MaxPooledLen); err != nil {
		return Config{}, err
	}
	if cfg.AllocLimit, err = envInt(EnvAllocLimit, cfg.AllocLimit); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(os.Getenv(EnvSampler)); v != "" {
		s, ok := sampler.Lookup(v)
		if !ok {
			return Config{}, errors.Kind(errors.ErrInvalidArgument, "resample: %s=%q is not a known sampler", EnvSampler, v)
		}
		cfg.Sampler = s
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = log.ParseLevel(v)
	}
	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.Kind(errors.ErrInvalidArgument, "resample: %s=%q is not a non-negative integer", key, v)
	}
	return n, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func (c Config) bufferOptions() buffer.Options {
	return buffer.Options{MaxPooledLen: c.MaxPooledLen, Limit: c.AllocLimit}
}

// RGBA32Codec returns the RGBA32 codec selected by c and the detected CPU.
func (c Config) RGBA32Codec() pixel.Codec[pixel.RGBA32] {
	return pixel.ForRGBA32(c.NoFastPath, buffer.NewPool[uint32](c.bufferOptions()))
}
