package ops

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/extops/internal/signal"
	"github.com/born-ml/extops/internal/tensor"
)

// Correlate2D is a parametrized operation: valid cross-correlation of an
// input with a learnable filter plus a learnable scalar bias.
//
// Forward:
//
//	output = Correlate2D(input, filter, valid) + bias     [h-kh+1, w-kw+1]
//
// Backward (gradients):
//   - d_input:  Convolve2D(grad, filter, full)           [h, w]
//   - d_filter: Correlate2D(input, grad, valid)          [kh, kw]
//   - d_bias:   sum(grad)                                [1, 1]
//
// Inputs are (input, filter, bias); bias holds a single element.
type Correlate2D struct{}

// NewCorrelate2D creates a new Correlate2D operation.
func NewCorrelate2D() *Correlate2D {
	return &Correlate2D{}
}

// Name returns "correlate2d".
func (c *Correlate2D) Name() string {
	return "correlate2d"
}

// Forward computes the biased valid correlation, cast to the input's dtype,
// and saves (input, filter, bias) for the backward pass.
func (c *Correlate2D) Forward(ctx *Context, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkArity(c, inputs, 3); err != nil {
		return nil, err
	}
	input, filter, bias := inputs[0], inputs[1], inputs[2]
	if bias.NumElements() != 1 {
		return nil, errors.Wrapf(signal.ErrShapeMismatch, "%s: bias shape %v, want a single element",
			c.Name(), bias.Shape())
	}

	x, err := tensor.ToDense(input)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: input", c.Name())
	}
	k, err := tensor.ToDense(filter)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: filter", c.Name())
	}

	out, err := signal.Correlate2D(x, k, signal.Valid)
	if err != nil {
		return nil, errors.Wrap(err, c.Name())
	}
	b := bias.At(0)
	out.Apply(func(_, _ int, v float64) float64 { return v + b }, out)

	ctx.SaveForBackward(input, filter, bias)
	return tensor.FromDense(out, input.DType())
}

// Backward returns (d_input, d_filter, d_bias) in the gradient's dtype.
func (c *Correlate2D) Backward(ctx *Context, outputGrad *tensor.RawTensor) ([]*tensor.RawTensor, error) {
	saved, err := ctx.SavedTensors()
	if err != nil {
		return nil, err
	}
	if len(saved) != 3 {
		return nil, errors.Errorf("%s backward: %d saved tensors, want 3 (was Forward called?)", c.Name(), len(saved))
	}
	input, filter, bias := saved[0], saved[1], saved[2]

	x, err := tensor.ToDense(input)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward: input", c.Name())
	}
	k, err := tensor.ToDense(filter)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward: filter", c.Name())
	}
	g, err := tensor.ToDense(outputGrad)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward: grad", c.Name())
	}

	h, w := x.Dims()
	kh, kw := k.Dims()
	rows, cols, _ := signal.OutputShape(h, w, kh, kw, signal.Valid)
	if gr, gc := g.Dims(); gr != rows || gc != cols {
		return nil, errors.Wrapf(signal.ErrShapeMismatch, "%s backward: grad %dx%d, output was %dx%d",
			c.Name(), gr, gc, rows, cols)
	}

	dtype := outputGrad.DType()

	gradBias, err := tensor.Full(bias.Shape(), mat.Sum(g), dtype)
	if err != nil {
		return nil, err
	}

	dx, err := signal.Convolve2D(g, k, signal.Full)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward: input grad", c.Name())
	}
	gradInput, err := tensor.FromDense(dx, dtype)
	if err != nil {
		return nil, err
	}

	dk, err := signal.Correlate2D(x, g, signal.Valid)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward: filter grad", c.Name())
	}
	gradFilter, err := tensor.FromDense(dk, dtype)
	if err != nil {
		return nil, err
	}

	return []*tensor.RawTensor{gradInput, gradFilter, gradBias}, nil
}
