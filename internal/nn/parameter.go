package nn

import (
	"github.com/born-ml/extops/internal/tensor"
)

// Parameter represents a trainable tensor owned by a layer.
//
// The layer owns the tensor; an external optimizer may update its values in
// place through Tensor() after reading Grad().
//
// Example:
//
//	filter := nn.NewParameter("filter", filterTensor)
//	grads, _ := autodiff.Backward(tape, out)
//	nn.CollectGrads(layer.Parameters(), grads)
//	g := filter.Grad()
type Parameter struct {
	name   string            // Parameter name (e.g., "filter", "bias")
	tensor *tensor.RawTensor // The parameter tensor
	grad   *tensor.RawTensor // Gradient (set after backward pass)
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet (before backward pass).
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.RawTensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// CollectGrads copies gradients from a Tape.Backward result onto params.
// Parameters absent from grads keep their previous gradient. Returns the
// number of parameters updated.
func CollectGrads(params []*Parameter, grads map[*tensor.RawTensor]*tensor.RawTensor) int {
	n := 0
	for _, p := range params {
		if g, ok := grads[p.tensor]; ok {
			p.grad = g
			n++
		}
	}
	return n
}
