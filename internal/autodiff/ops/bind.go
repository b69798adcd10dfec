package ops

import (
	"github.com/born-ml/extops/internal/tensor"
)

// Bound is a Function with its trailing inputs fixed. It is how a layer
// presents "output as a function of the input only" while its parameters
// stay constant, e.g. for a gradient check against the input.
type Bound struct {
	fn    Function
	fixed []*tensor.RawTensor
}

// Bind returns fn with its last len(fixed) inputs set to fixed.
//
// Example:
//
//	f := ops.Bind(ops.NewCorrelate2D(), filter, bias)
//	out, err := f.Forward(ctx, input) // Correlate2D(input, filter, bias)
func Bind(fn Function, fixed ...*tensor.RawTensor) *Bound {
	return &Bound{fn: fn, fixed: fixed}
}

// Name returns the wrapped function's name.
func (b *Bound) Name() string {
	return b.fn.Name()
}

// Forward calls the wrapped function with inputs followed by the fixed tensors.
func (b *Bound) Forward(ctx *Context, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	all := make([]*tensor.RawTensor, 0, len(inputs)+len(b.fixed))
	all = append(all, inputs...)
	all = append(all, b.fixed...)
	return b.fn.Forward(ctx, all...)
}

// Backward returns the gradients of the free inputs only.
func (b *Bound) Backward(ctx *Context, outputGrad *tensor.RawTensor) ([]*tensor.RawTensor, error) {
	grads, err := b.fn.Backward(ctx, outputGrad)
	if err != nil {
		return nil, err
	}
	free := len(grads) - len(b.fixed)
	if free < 0 {
		free = 0
	}
	return grads[:free], nil
}
