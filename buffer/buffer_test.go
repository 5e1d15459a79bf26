package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-resize/internal/errors"
)

func TestClassShift(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, minClassShift},
		{1, minClassShift},
		{64, 6},
		{65, 7},
		{128, 7},
		{129, 8},
		{1 << 20, 20},
		{1<<20 + 1, 21},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classShift(tc.n), "classShift(%d)", tc.n)
	}
}

func TestRentRelease(t *testing.T) {
	p := NewPool[float32](Options{})

	buf, err := p.Rent(100)
	require.NoError(t, err)
	assert.Len(t, buf.Slice(), 100)
	assert.GreaterOrEqual(t, cap(buf.Slice()), 100)

	buf.Slice()[99] = 7
	buf.Release()

	st := p.Stats()
	assert.Equal(t, int64(1), st.Rented)
	assert.Equal(t, int64(1), st.Released)
	assert.Equal(t, int64(0), st.Outstanding())
	assert.Nil(t, buf.Slice(), "released buffer must drop its slice")
}

func TestReleaseTwiceIsNoop(t *testing.T) {
	p := NewPool[int](Options{})
	buf, err := p.Rent(10)
	require.NoError(t, err)
	buf.Release()
	buf.Release()
	assert.Equal(t, int64(1), p.Stats().Released)

	var nilBuf *Buffer[int]
	nilBuf.Release()
}

func TestClear(t *testing.T) {
	p := NewPool[int](Options{})
	buf, err := p.Rent(70)
	require.NoError(t, err)
	defer buf.Release()
	for i := range buf.Slice() {
		buf.Slice()[i] = i + 1
	}
	buf.Clear()
	for i, v := range buf.Slice() {
		require.Zero(t, v, "element %d", i)
	}
}

func TestDirectFallback(t *testing.T) {
	p := NewPool[byte](Options{MaxPooledLen: 256})

	buf, err := p.Rent(1000)
	require.NoError(t, err)
	assert.Len(t, buf.Slice(), 1000)
	buf.Release()

	st := p.Stats()
	assert.Equal(t, int64(1), st.Direct)
	assert.Equal(t, int64(0), st.Outstanding())
}

func TestLimit(t *testing.T) {
	p := NewPool[float32](Options{Limit: 50})

	_, err := p.Rent(51)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))

	_, err = p.Rent(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	buf, err := p.Rent(50)
	require.NoError(t, err)
	buf.Release()

	st := p.Stats()
	assert.Equal(t, int64(2), st.Failed)
	assert.Equal(t, int64(1), st.Rented)
}

func TestConcurrentRent(t *testing.T) {
	p := NewPool[int](Options{})

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				n := (g*37+i)%500 + 1
				buf, err := p.Rent(n)
				if err != nil {
					t.Error(err)
					return
				}
				s := buf.Slice()
				for j := range s {
					s[j] = g
				}
				for j := range s {
					if s[j] != g {
						t.Errorf("buffer shared between goroutines")
						break
					}
				}
				buf.Release()
			}
		}()
	}
	wg.Wait()

	st := p.Stats()
	assert.Equal(t, int64(16*200), st.Rented)
	assert.Equal(t, int64(0), st.Outstanding())
}
