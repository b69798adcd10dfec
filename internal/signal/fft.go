package signal

import (
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// RFFT2 computes the 2D discrete Fourier transform of a real (h, w) matrix.
// Only the non-negative frequencies of the last axis are kept, so the result
// has shape (h, w/2+1); the rest follows from Hermitian symmetry.
//
// The transform is unnormalized: RFFT2 then IRFFT2 is the identity.
func RFFT2(x mat.Matrix) (*mat.CDense, error) {
	h, w := x.Dims()
	if h == 0 || w == 0 {
		return nil, errors.Wrapf(ErrEmpty, "rfft2: input %dx%d", h, w)
	}
	half := w/2 + 1
	out := mat.NewCDense(h, half, nil)

	rowFFT := fourier.NewFFT(w)
	seq := make([]float64, w)
	coeff := make([]complex128, half)
	for i := 0; i < h; i++ {
		mat.Row(seq, i, x)
		rowFFT.Coefficients(coeff, seq)
		for j, v := range coeff {
			out.Set(i, j, v)
		}
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for j := 0; j < half; j++ {
		for i := range col {
			col[i] = out.At(i, j)
		}
		colFFT.Coefficients(col, col)
		for i, v := range col {
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// IRFFT2 inverts RFFT2. width is the length of the real output rows; zero
// selects 2*(cols-1), which recovers even input widths exactly. Coefficients
// beyond width/2+1 are dropped, missing ones are treated as zero.
func IRFFT2(c mat.CMatrix, width int) (*mat.Dense, error) {
	h, m := c.Dims()
	if h == 0 || m == 0 {
		return nil, errors.Wrapf(ErrEmpty, "irfft2: input %dx%d", h, m)
	}
	if width == 0 {
		width = 2 * (m - 1)
	}
	if width < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "irfft2: output width %d from %d coefficients", width, m)
	}
	half := width/2 + 1
	used := min(half, m)

	// Inverse along the first axis on a resized copy of the spectrum.
	spec := mat.NewCDense(h, half, nil)
	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	scaleH := complex(1/float64(h), 0)
	for j := 0; j < used; j++ {
		for i := range col {
			col[i] = c.At(i, j)
		}
		colFFT.Sequence(col, col)
		for i, v := range col {
			spec.Set(i, j, v*scaleH)
		}
	}

	out := mat.NewDense(h, width, nil)
	rowFFT := fourier.NewFFT(width)
	coeff := make([]complex128, half)
	seq := make([]float64, width)
	scaleW := 1 / float64(width)
	for i := 0; i < h; i++ {
		for j := range coeff {
			coeff[j] = spec.At(i, j)
		}
		rowFFT.Sequence(seq, coeff)
		for j, v := range seq {
			out.Set(i, j, v*scaleW)
		}
	}
	return out, nil
}

// Magnitude returns the element-wise absolute value of a complex matrix.
func Magnitude(c mat.CMatrix) *mat.Dense {
	h, w := c.Dims()
	out := mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			out.Set(i, j, cmplx.Abs(c.At(i, j)))
		}
	}
	return out
}

// RealSpectrum lifts a real matrix to a complex one with zero imaginary part.
func RealSpectrum(m mat.Matrix) *mat.CDense {
	h, w := m.Dims()
	out := mat.NewCDense(h, w, nil)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			out.Set(i, j, complex(m.At(i, j), 0))
		}
	}
	return out
}
