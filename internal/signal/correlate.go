package signal

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/extops/internal/parallel"
)

// Correlate2D computes the 2D cross-correlation of in with kernel: the kernel
// slides over the input without flipping and zero padding fills positions
// outside the input.
//
//	out[i, j] = Σ_a Σ_b in[i+a-r0, j+b-c0] · kernel[a, b]
//
// where (r0, c0) is the distance between the mode's window and the full
// output origin. Valid mode requires the kernel to fit in the input.
func Correlate2D(in, kernel mat.Matrix, mode Mode) (*mat.Dense, error) {
	return correlate2D(in, kernel, mode, parallel.DefaultConfig())
}

// Convolve2D computes the 2D convolution of in with kernel, i.e. the
// correlation with the kernel flipped along both axes.
//
// Convolve2D(g, k, Full) is the input gradient of Correlate2D(x, k, Valid).
func Convolve2D(in, kernel mat.Matrix, mode Mode) (*mat.Dense, error) {
	return correlate2D(in, Flip(kernel), mode, parallel.DefaultConfig())
}

// Flip returns a copy of m reversed along both axes.
func Flip(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(r-1-i, c-1-j, m.At(i, j))
		}
	}
	return out
}

func correlate2D(in, kernel mat.Matrix, mode Mode, cfg parallel.Config) (*mat.Dense, error) {
	h, w := in.Dims()
	kh, kw := kernel.Dims()
	rows, cols, err := OutputShape(h, w, kh, kw, mode)
	if err != nil {
		return nil, err
	}

	src := mat.DenseCopyOf(in).RawMatrix()
	ker := mat.DenseCopyOf(kernel).RawMatrix()
	out := mat.NewDense(rows, cols, nil)
	dst := out.RawMatrix()

	r0, c0 := origin(kh, kw, mode)
	// Shift from output coordinates to the input row/col under kernel[0, 0].
	dr, dc := r0-(kh-1), c0-(kw-1)

	parallel.Rows(rows, cols*kh*kw, func(i int) {
		row := dst.Data[i*dst.Stride : i*dst.Stride+cols]
		for j := range row {
			var acc float64
			for a := 0; a < kh; a++ {
				y := i + dr + a
				if y < 0 || y >= h {
					continue
				}
				inRow := src.Data[y*src.Stride : y*src.Stride+w]
				kRow := ker.Data[a*ker.Stride : a*ker.Stride+kw]
				// Clip kernel columns to those that land inside the input.
				bLo := max(0, -(j + dc))
				bHi := min(kw, w-(j+dc))
				for b := bLo; b < bHi; b++ {
					acc += inRow[j+dc+b] * kRow[b]
				}
			}
			row[j] = acc
		}
	}, cfg)

	return out, nil
}
