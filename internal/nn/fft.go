package nn

import (
	"github.com/born-ml/extops/internal/autodiff"
	"github.com/born-ml/extops/internal/autodiff/ops"
	"github.com/born-ml/extops/internal/tensor"
)

// FFTMagnitude is a parameter-less layer returning |RFFT2(input)|.
//
// Its backward pass is not the true gradient (see ops.FFTMagnitude).
type FFTMagnitude struct {
	op   *ops.FFTMagnitude
	tape *autodiff.Tape
}

// NewFFTMagnitude creates the layer. Only WithTape is meaningful.
func NewFFTMagnitude(opts ...Option) *FFTMagnitude {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FFTMagnitude{
		op:   ops.NewFFTMagnitude(),
		tape: cfg.ownTape(),
	}
}

// Forward computes the magnitude spectrum, shape [h, w/2+1].
func (f *FFTMagnitude) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return f.tape.Apply(f.op, input)
}

// Parameters returns an empty slice.
func (f *FFTMagnitude) Parameters() []*Parameter {
	return []*Parameter{}
}

// Tape returns the tape the layer records on.
func (f *FFTMagnitude) Tape() *autodiff.Tape {
	return f.tape
}
