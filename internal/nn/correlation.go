package nn

import (
	"fmt"

	"github.com/born-ml/extops/internal/autodiff"
	"github.com/born-ml/extops/internal/autodiff/ops"
	"github.com/born-ml/extops/internal/tensor"
)

// Correlation2D is a layer with a learnable 2D filter and scalar bias.
//
// Performs: output = Correlate2D(input, filter, valid) + bias
//
// Input shape:  [height, width]
// Filter shape: [filter_width, filter_height]
// Bias shape:   [1, 1]
// Output shape: [height - filter_width + 1, width - filter_height + 1]
//
// Example:
//
//	layer := nn.NewCorrelation2D(3, 3, nn.WithRand(rand.New(rand.NewSource(1))))
//	out, err := layer.Forward(input)                    // [8, 8] -> [6, 6]
//	grads, err := autodiff.Backward(layer.Tape(), out)
//	nn.CollectGrads(layer.Parameters(), grads)
type Correlation2D struct {
	filter *Parameter
	bias   *Parameter
	op     *ops.Correlate2D
	tape   *autodiff.Tape
}

// NewCorrelation2D creates the layer with filter and bias drawn from N(0, 1).
func NewCorrelation2D(filterWidth, filterHeight int, opts ...Option) *Correlation2D {
	if filterWidth <= 0 || filterHeight <= 0 {
		panic(fmt.Sprintf("correlation2d: invalid filter size %dx%d", filterWidth, filterHeight))
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	filter, err := tensor.Randn(tensor.Shape{filterWidth, filterHeight}, cfg.dtype, cfg.rng)
	if err != nil {
		panic(fmt.Sprintf("correlation2d: %v", err))
	}
	bias, err := tensor.Randn(tensor.Shape{1, 1}, cfg.dtype, cfg.rng)
	if err != nil {
		panic(fmt.Sprintf("correlation2d: %v", err))
	}

	return &Correlation2D{
		filter: NewParameter("filter", filter),
		bias:   NewParameter("bias", bias),
		op:     ops.NewCorrelate2D(),
		tape:   cfg.ownTape(),
	}
}

// Forward applies the correlation to a 2D input through the layer's tape.
func (c *Correlation2D) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return c.tape.Apply(c.op, input, c.filter.Tensor(), c.bias.Tensor())
}

// Parameters returns [filter, bias].
func (c *Correlation2D) Parameters() []*Parameter {
	return []*Parameter{c.filter, c.bias}
}

// Filter returns the filter parameter.
func (c *Correlation2D) Filter() *Parameter {
	return c.filter
}

// Bias returns the bias parameter.
func (c *Correlation2D) Bias() *Parameter {
	return c.bias
}

// Tape returns the tape the layer records on.
func (c *Correlation2D) Tape() *autodiff.Tape {
	return c.tape
}

// AsFunction returns the layer as a function of its input alone, with the
// current parameters held fixed. Used for gradient checks against the input.
func (c *Correlation2D) AsFunction() ops.Function {
	return ops.Bind(c.op, c.filter.Tensor(), c.bias.Tensor())
}
