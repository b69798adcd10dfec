package signal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRFFT2_Shape(t *testing.T) {
	tests := []struct {
		h, w int
		cols int
	}{
		{8, 8, 5},
		{4, 6, 4},
		{3, 5, 3},
		{1, 1, 1},
	}

	for _, tt := range tests {
		x := mat.NewDense(tt.h, tt.w, nil)
		spec, err := RFFT2(x)
		require.NoError(t, err)

		r, c := spec.Dims()
		assert.Equal(t, tt.h, r)
		assert.Equal(t, tt.cols, c, "width %d", tt.w)
	}
}

func TestRFFT2_Impulse(t *testing.T) {
	// The transform of a unit impulse at the origin is all ones.
	x := mat.NewDense(4, 4, nil)
	x.Set(0, 0, 1)

	spec, err := RFFT2(x)
	require.NoError(t, err)

	r, c := spec.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, 1.0, real(spec.At(i, j)), 1e-12)
			assert.InDelta(t, 0.0, imag(spec.At(i, j)), 1e-12)
		}
	}
}

func TestRFFT2_DCIsSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := randDense(rng, 5, 6)

	spec, err := RFFT2(x)
	require.NoError(t, err)

	assert.InDelta(t, mat.Sum(x), real(spec.At(0, 0)), 1e-9)
	assert.InDelta(t, 0.0, imag(spec.At(0, 0)), 1e-9)
}

func TestRFFT2_SingleFrequency(t *testing.T) {
	// cos(2π·j/8) along the rows puts h*w/2 at column frequency 1.
	h, w := 2, 8
	x := mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			x.Set(i, j, math.Cos(2*math.Pi*float64(j)/float64(w)))
		}
	}

	spec, err := RFFT2(x)
	require.NoError(t, err)

	mag := Magnitude(spec)
	assert.InDelta(t, float64(h*w)/2, mag.At(0, 1), 1e-9)
	assert.InDelta(t, 0.0, mag.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, mag.At(1, 1), 1e-9)
}

func TestIRFFT2_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	t.Run("even width default length", func(t *testing.T) {
		x := randDense(rng, 6, 8)
		spec, err := RFFT2(x)
		require.NoError(t, err)

		back, err := IRFFT2(spec, 0)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(x, back, 1e-10))
	})

	t.Run("odd width explicit length", func(t *testing.T) {
		x := randDense(rng, 3, 7)
		spec, err := RFFT2(x)
		require.NoError(t, err)

		back, err := IRFFT2(spec, 7)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(x, back, 1e-10))
	})
}

func TestIRFFT2_DefaultWidth(t *testing.T) {
	spec := mat.NewCDense(3, 5, nil)
	out, err := IRFFT2(spec, 0)
	require.NoError(t, err)

	r, c := out.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 8, c)
}

func TestIRFFT2_ConstantSpectrum(t *testing.T) {
	// Only the DC term set: the output is constant DC/(h*w).
	spec := mat.NewCDense(2, 3, nil)
	spec.Set(0, 0, complex(8, 0))

	out, err := IRFFT2(spec, 0)
	require.NoError(t, err)

	r, c := out.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, 1.0, out.At(i, j), 1e-12)
		}
	}
}

func TestIRFFT2_InvalidLength(t *testing.T) {
	_, err := IRFFT2(mat.NewCDense(2, 1, nil), 0)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestRealSpectrum(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{3, -1})
	c := RealSpectrum(m)
	assert.Equal(t, complex(3, 0), c.At(0, 0))
	assert.Equal(t, complex(-1, 0), c.At(0, 1))
}
