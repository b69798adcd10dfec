package ops

import (
	"github.com/pkg/errors"

	"github.com/born-ml/extops/internal/signal"
	"github.com/born-ml/extops/internal/tensor"
)

// FFTMagnitude is a parameter-less operation returning the magnitude of the
// 2D real FFT of its input.
//
// Forward: |RFFT2(x)|, shape (h, w/2+1)
//
// Backward: IRFFT2(grad), shape (h, 2*(cols-1)).
//
// The magnitude is not holomorphic, so this backward is not the true
// gradient; it only shows how an external inverse transform is plugged into
// the backward pass. It fails a finite-difference check. For odd input widths
// the returned gradient is one column narrower than the input.
type FFTMagnitude struct{}

// NewFFTMagnitude creates a new FFTMagnitude operation.
func NewFFTMagnitude() *FFTMagnitude {
	return &FFTMagnitude{}
}

// Name returns "fft_magnitude".
func (f *FFTMagnitude) Name() string {
	return "fft_magnitude"
}

// Exact reports whether Backward is the true gradient of Forward. Always false.
func (f *FFTMagnitude) Exact() bool {
	return false
}

// Forward computes |RFFT2(input)| in the input's dtype. Nothing is saved.
func (f *FFTMagnitude) Forward(_ *Context, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkArity(f, inputs, 1); err != nil {
		return nil, err
	}
	input := inputs[0]

	x, err := tensor.ToDense(input)
	if err != nil {
		return nil, errors.Wrap(err, f.Name())
	}
	spec, err := signal.RFFT2(x)
	if err != nil {
		return nil, errors.Wrap(err, f.Name())
	}
	return tensor.FromDense(signal.Magnitude(spec), input.DType())
}

// Backward applies the inverse real FFT to the output gradient.
func (f *FFTMagnitude) Backward(ctx *Context, outputGrad *tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if _, err := ctx.SavedTensors(); err != nil {
		return nil, err
	}

	g, err := tensor.ToDense(outputGrad)
	if err != nil {
		return nil, errors.Wrap(err, f.Name()+" backward")
	}
	back, err := signal.IRFFT2(signal.RealSpectrum(g), 0)
	if err != nil {
		return nil, errors.Wrap(err, f.Name()+" backward")
	}
	gradInput, err := tensor.FromDense(back, outputGrad.DType())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{gradInput}, nil
}
