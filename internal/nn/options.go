package nn

import (
	"math/rand"

	"github.com/born-ml/extops/internal/autodiff"
	"github.com/born-ml/extops/internal/tensor"
)

type config struct {
	dtype tensor.DataType
	rng   *rand.Rand
	tape  *autodiff.Tape
}

func defaultConfig() config {
	return config{dtype: tensor.Float64}
}

// Option configures a layer.
type Option func(*config)

// WithDType sets the parameter precision (default Float64).
func WithDType(dtype tensor.DataType) Option {
	return func(c *config) { c.dtype = dtype }
}

// WithRand sets the source used for parameter initialization.
// The default is the global math/rand source.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) { c.rng = rng }
}

// WithTape makes the layer record its applications on tape. Layers sharing a
// tape can be differentiated together. By default each layer owns a
// recording tape.
func WithTape(tape *autodiff.Tape) Option {
	return func(c *config) { c.tape = tape }
}

func (c *config) ownTape() *autodiff.Tape {
	if c.tape != nil {
		return c.tape
	}
	t := autodiff.NewTape()
	t.StartRecording()
	return t
}
