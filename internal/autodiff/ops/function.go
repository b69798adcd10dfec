// Package ops defines the custom differentiable operation contract and the
// operations built on top of the signal routines.
//
// Each operation implements Function:
//   - Forward computes the output from the inputs and saves whatever the
//     backward pass needs into a Context
//   - Backward reads the Context and maps the output gradient to one
//     gradient per input
//
// Supported operations:
//   - FFTMagnitude: |RFFT2(x)|, backward is IRFFT2(grad) (illustrative only)
//   - Correlate2D: valid cross-correlation plus scalar bias
package ops

import (
	"github.com/pkg/errors"

	"github.com/born-ml/extops/internal/tensor"
)

var (
	// ErrContextReleased is returned when a Context is used for a second
	// backward pass.
	ErrContextReleased = errors.New("ops: context already released by a backward pass")

	// ErrArity is returned when a function receives the wrong number of inputs.
	ErrArity = errors.New("ops: wrong number of inputs")
)

// Function is a custom differentiable operation.
//
// Implementations must be stateless: everything a backward pass needs is
// stored in the Context passed to Forward. The same Function value may then
// be used by any number of independent forward/backward pairs.
type Function interface {
	// Name identifies the function in errors and gradient check reports.
	Name() string

	// Forward computes the output for inputs, saving backward state in ctx.
	Forward(ctx *Context, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error)

	// Backward computes one gradient per Forward input, in input order,
	// given the gradient of the loss with respect to the output.
	// A nil entry means the input receives no gradient.
	Backward(ctx *Context, outputGrad *tensor.RawTensor) ([]*tensor.RawTensor, error)
}

// Context carries the values saved by one Forward call to its paired
// Backward call. A Context is created per forward call; it is never shared
// between calls and is not safe for concurrent use.
type Context struct {
	saved    []*tensor.RawTensor
	released bool
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{}
}

// SaveForBackward records tensors for the backward pass, replacing any
// previously saved ones. Saved tensors are held by reference and must not
// be modified until the backward pass has run.
func (c *Context) SaveForBackward(ts ...*tensor.RawTensor) {
	c.saved = append(c.saved[:0], ts...)
}

// SavedTensors returns the tensors stored by SaveForBackward.
func (c *Context) SavedTensors() ([]*tensor.RawTensor, error) {
	if c.released {
		return nil, ErrContextReleased
	}
	return c.saved, nil
}

// Release drops the saved tensors. Later calls to SavedTensors fail.
func (c *Context) Release() {
	c.saved = nil
	c.released = true
}

// Released reports whether Release has been called.
func (c *Context) Released() bool {
	return c.released
}

func checkArity(fn Function, inputs []*tensor.RawTensor, want int) error {
	if len(inputs) != want {
		return errors.Wrapf(ErrArity, "%s: got %d inputs, want %d", fn.Name(), len(inputs), want)
	}
	for i, in := range inputs {
		if in == nil {
			return errors.Wrapf(ErrArity, "%s: input %d is nil", fn.Name(), i)
		}
	}
	return nil
}
