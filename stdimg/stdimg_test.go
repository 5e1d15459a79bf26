package stdimg

import (
	"image"
	"image/color"
	"testing"

	"github.com/anthonynsimon/bild/transform"
	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/ajroetker/go-resize/internal/errors"
	"github.com/ajroetker/go-resize/resample"
	"github.com/ajroetker/go-resize/sampler"
)

// gradient returns an opaque image whose red channel grows left to right
// and green channel top to bottom.
func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * x / max(w-1, 1)),
				G: uint8(255 * y / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return m
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestFromImageRoundTrip(t *testing.T) {
	src := gradient(13, 7)
	img := FromImage(src)
	assert.Equal(t, 13, img.Width())
	assert.Equal(t, 7, img.Height())
	assert.Equal(t, src, ToNRGBA(img))
}

func TestFromImageSubImage(t *testing.T) {
	src := gradient(20, 20).SubImage(image.Rect(5, 6, 9, 8)).(*image.NRGBA)
	img := FromImage(src)
	require.Equal(t, 4, img.Width())
	require.Equal(t, 2, img.Height())
	for y := range 2 {
		for x := range 4 {
			c := src.NRGBAAt(5+x, 6+y)
			p := img.At(x, y)
			assert.Equal(t, [4]uint8{c.R, c.G, c.B, c.A}, [4]uint8{p.R, p.G, p.B, p.A}, "pixel (%d,%d)", x, y)
		}
	}
}

func TestFromImageConvertsOtherModels(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{0, 100, 255}
	img := FromImage(src)
	for x, want := range src.Pix {
		p := img.At(x, 0)
		assert.Equal(t, want, p.R)
		assert.Equal(t, want, p.G)
		assert.Equal(t, want, p.B)
		assert.Equal(t, uint8(255), p.A)
	}
}

func TestResize(t *testing.T) {
	m, err := Resize(gradient(64, 48), 16, 12, sampler.Triangle)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), m.Bounds())

	// Red increases along x, green along y.
	assert.Less(t, m.NRGBAAt(0, 5).R, m.NRGBAAt(15, 5).R)
	assert.Less(t, m.NRGBAAt(5, 0).G, m.NRGBAAt(5, 11).G)
}

func TestResizeDefaultsToLanczos3(t *testing.T) {
	src := gradient(40, 40)
	a, err := Resize(src, 10, 10, nil)
	require.NoError(t, err)
	b, err := Resize(src, 10, 10, sampler.Lanczos3)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestResizerSamplerFromConfig(t *testing.T) {
	src := gradient(40, 40)
	fromConfig := &Resizer{Config: &resample.Config{Workers: 1, Sampler: sampler.Triangle}}
	explicit := &Resizer{Sampler: sampler.Triangle, Config: &resample.Config{Workers: 1}}
	noSampler := &Resizer{Config: &resample.Config{Workers: 1}}

	a, err := fromConfig.Resize(src, image.Pt(10, 10))
	require.NoError(t, err)
	b, err := explicit.Resize(src, image.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, b, a)

	c, err := noSampler.Resize(src, image.Pt(10, 10))
	require.NoError(t, err)
	d, err := Resize(src, 10, 10, sampler.Lanczos3)
	require.NoError(t, err)
	assert.Equal(t, d, c)
}

func TestResizeInvalid(t *testing.T) {
	_, err := Resize(gradient(4, 4), 0, 4, nil)
	assert.True(t, errors.Is(err, resample.ErrInvalidArgument), "got %v", err)

	_, err = Resize(image.NewNRGBA(image.Rectangle{}), 4, 4, nil)
	assert.True(t, errors.Is(err, resample.ErrInvalidArgument), "got %v", err)

	_, err = Resize(nil, 4, 4, nil)
	assert.True(t, errors.Is(err, resample.ErrInvalidArgument), "got %v", err)
}

func TestResizerWorkerCountsAgree(t *testing.T) {
	src := gradient(101, 67)
	seq := &Resizer{Sampler: sampler.CatmullRom, Config: &resample.Config{Workers: 1}}
	par := &Resizer{Sampler: sampler.CatmullRom, Config: &resample.Config{Workers: 4}}

	a, err := seq.Resize(src, image.Pt(33, 21))
	require.NoError(t, err)
	b, err := par.Resize(src, image.Pt(33, 21))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Same(t, poolFor(4), poolFor(4))
	assert.Nil(t, poolFor(1))
}

func TestResizeMatchesXDraw(t *testing.T) {
	src := gradient(90, 60)
	for _, s := range []sampler.Sampler{sampler.Triangle, sampler.CatmullRom} {
		t.Run(s.String(), func(t *testing.T) {
			got, err := Resize(src, 30, 45, s)
			require.NoError(t, err)

			want := image.NewNRGBA(image.Rect(0, 0, 30, 45))
			Interpolator(s).Scale(want, want.Bounds(), src, src.Bounds(), draw.Src, nil)

			for y := range 45 {
				for x := range 30 {
					g, w := got.NRGBAAt(x, y), want.NRGBAAt(x, y)
					if diff(g.R, w.R) > 2 || diff(g.G, w.G) > 2 || diff(g.B, w.B) > 2 {
						t.Fatalf("pixel (%d,%d): got %v, x/image/draw %v", x, y, g, w)
					}
				}
			}
		})
	}
}

func TestResizeSolidMatchesBild(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 50, 30))
	c := color.NRGBA{R: 10, G: 120, B: 240, A: 255}
	draw.Draw(src, src.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	got, err := Resize(src, 20, 20, sampler.Triangle)
	require.NoError(t, err)
	ref := transform.Resize(src, 20, 20, transform.Linear)
	require.Equal(t, ref.Bounds(), got.Bounds())

	for y := range 20 {
		for x := range 20 {
			r, g, b, a := ref.At(x, y).RGBA()
			p := got.NRGBAAt(x, y)
			for i, ch := range [][2]uint8{{uint8(r >> 8), p.R}, {uint8(g >> 8), p.G}, {uint8(b >> 8), p.B}, {uint8(a >> 8), p.A}} {
				assert.LessOrEqual(t, diff(ch[0], ch[1]), 1, "pixel (%d,%d) channel %d", x, y, i)
			}
		}
	}
}

func TestInterpolatorNearest(t *testing.T) {
	assert.Equal(t, draw.NearestNeighbor, Interpolator(sampler.NearestNeighbor))
	k, ok := Interpolator(sampler.Lanczos3).(*draw.Kernel)
	require.True(t, ok)
	assert.InDelta(t, 3, k.Support, 1e-9)
	assert.InDelta(t, 1, k.At(0), 1e-6)
}

func benchmarkSource() *image.NRGBA { return gradient(1920, 1080) }

func BenchmarkResize(b *testing.B) {
	src := benchmarkSource()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Resize(src, 640, 360, sampler.Lanczos3); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXDraw(b *testing.B) {
	src := benchmarkSource()
	k := Interpolator(sampler.Lanczos3)
	b.ReportAllocs()
	for b.Loop() {
		dst := image.NewNRGBA(image.Rect(0, 0, 640, 360))
		k.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
}

func BenchmarkBild(b *testing.B) {
	src := benchmarkSource()
	b.ReportAllocs()
	for b.Loop() {
		_ = transform.Resize(src, 640, 360, transform.Lanczos)
	}
}

func BenchmarkNfnt(b *testing.B) {
	src := benchmarkSource()
	b.ReportAllocs()
	for b.Loop() {
		_ = resize.Resize(640, 360, src, resize.Lanczos3)
	}
}
