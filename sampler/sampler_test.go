package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func almostEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) < float64(tol)
}

func TestValueAtZero(t *testing.T) {
	for _, s := range All() {
		if IsNearest(s) {
			continue
		}
		t.Run(s.String(), func(t *testing.T) {
			switch s {
			case Spline, MitchellNetravali, Robidoux, RobidouxSharp:
				// Smoothing B-splines do not interpolate: Value(0) = 1 - B/3.
				c := s.(Cubic)
				assert.InDelta(t, 1-c.B/3, s.Value(0), 1e-6)
			default:
				assert.InDelta(t, 1, s.Value(0), 1e-6)
			}
		})
	}
}

func TestSymmetric(t *testing.T) {
	for _, s := range All() {
		if IsNearest(s) || s == Box {
			continue
		}
		r := s.Radius()
		for i := range 50 {
			x := r * float32(i) / 50
			if !almostEqual(s.Value(x), s.Value(-x), 1e-6) {
				t.Errorf("%s: Value(%v)=%v, Value(-%v)=%v", s, x, s.Value(x), x, s.Value(-x))
			}
		}
	}
}

func TestVanishesAtRadius(t *testing.T) {
	for _, s := range All() {
		if IsNearest(s) || s == Box {
			continue
		}
		if got := s.Value(s.Radius()); !almostEqual(got, 0, 1e-5) {
			t.Errorf("%s: Value(radius) = %v, want 0", s, got)
		}
	}
}

func TestInterpolatingKernelsZeroAtIntegers(t *testing.T) {
	for _, s := range []Sampler{Triangle, Bicubic, CatmullRom, Hermite, Lanczos2, Lanczos3, Lanczos5, Lanczos8, Welch} {
		for x := float32(1); x < s.Radius(); x++ {
			if got := s.Value(x); !almostEqual(got, 0, 1e-5) {
				t.Errorf("%s: Value(%v) = %v, want 0", s, x, got)
			}
		}
	}
}

func TestBox(t *testing.T) {
	assert.Equal(t, float32(0.5), Box.Radius())
	assert.Equal(t, float32(1), Box.Value(0.5))
	assert.Equal(t, float32(0), Box.Value(-0.5))
	assert.Equal(t, float32(1), Box.Value(0.2))
	assert.Equal(t, float32(0), Box.Value(0.51))
}

func TestTriangle(t *testing.T) {
	assert.InDelta(t, 0.75, Triangle.Value(0.25), 1e-6)
	assert.InDelta(t, 0.5, Triangle.Value(-0.5), 1e-6)
	assert.Equal(t, float32(0), Triangle.Value(1))
}

func TestCatmullRomMatchesReference(t *testing.T) {
	// golang.org/x/image/draw's CatmullRom, written out.
	ref := func(t float64) float64 {
		if t < 1 {
			return (1.5*t-2.5)*t*t + 1
		}
		return ((-0.5*t+2.5)*t-4)*t + 2
	}
	for i := range 200 {
		x := float32(i) / 100
		assert.InDelta(t, ref(float64(x)), CatmullRom.Value(x), 1e-5, "x=%v", x)
	}
}

func TestBicubicEqualsCatmullRom(t *testing.T) {
	// Keys with a = -0.5 is the same curve as BC(0, 0.5).
	for i := range 200 {
		x := float32(i) / 100
		assert.InDelta(t, CatmullRom.Value(x), Bicubic.Value(x), 1e-5, "x=%v", x)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Sampler
	}{
		{"nearest", NearestNeighbor},
		{"NearestNeighbor", NearestNeighbor},
		{"box", Box},
		{"Catmull-Rom", CatmullRom},
		{"mitchell_netravali", MitchellNetravali},
		{"lanczos", Lanczos3},
		{"Lanczos8", Lanczos8},
		{"robidoux sharp", RobidouxSharp},
		{"bilinear", Triangle},
	}
	for _, tc := range tests {
		got, ok := Lookup(tc.name)
		if assert.True(t, ok, tc.name) {
			assert.Equal(t, tc.want, got, tc.name)
		}
	}
	_, ok := Lookup("gaussian")
	assert.False(t, ok)
}

func TestNewLanczos(t *testing.T) {
	k := NewLanczos(4)
	assert.Equal(t, float32(4), k.Radius())
	assert.Equal(t, "lanczos4", k.String())
	assert.Equal(t, 1, NewLanczos(0).N)
}

func TestNewCubic(t *testing.T) {
	k := NewCubic(0, 0.5)
	assert.Equal(t, "cubic", k.String())
	for i := range 20 {
		x := float32(i) / 10
		assert.InDelta(t, CatmullRom.Value(x), k.Value(x), 1e-6)
	}
}
