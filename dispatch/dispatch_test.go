package dispatch

import (
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelScalar, "scalar"},
		{LevelSSE2, "sse2"},
		{LevelAVX2, "avx2"},
		{LevelAVX512, "avx512"},
		{LevelNEON, "neon"},
		{Level(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestLevelLanes(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{LevelScalar, 1},
		{LevelSSE2, 4},
		{LevelNEON, 4},
		{LevelAVX2, 8},
		{LevelAVX512, 16},
		{Level(99), 1},
	}
	for _, tc := range tests {
		if got := tc.level.Lanes(); got != tc.want {
			t.Errorf("%v.Lanes() = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestNoSimdEnv(t *testing.T) {
	t.Setenv(NoSimdEnvVar, "1")
	if !NoSimdEnv() {
		t.Error("NoSimdEnv() = false with RESIZE_NO_SIMD=1")
	}
	if got := Redetect(); got != LevelScalar {
		t.Errorf("Redetect() = %v, want scalar", got)
	}
	if CurrentLevel() != LevelScalar {
		t.Errorf("CurrentLevel() = %v after Redetect, want scalar", CurrentLevel())
	}

	t.Setenv(NoSimdEnvVar, "false")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with RESIZE_NO_SIMD=false")
	}
	Redetect()

	t.Setenv(NoSimdEnvVar, "yes please")
	if !NoSimdEnv() {
		t.Error("unparsable non-empty value should disable SIMD")
	}
	t.Setenv(NoSimdEnvVar, "")
	Redetect()
}

func TestDefaultWorkers(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Errorf("DefaultWorkers() = %d, want >= 1", DefaultWorkers())
	}
}
