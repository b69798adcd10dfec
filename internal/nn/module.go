// Package nn implements layers built from custom differentiable functions.
//
// This package provides:
//   - Module interface: Base interface for all layers
//   - Parameter: Trainable tensors with an attached gradient
//   - Correlation2D: Learnable 2D correlation filter plus scalar bias
//   - FFTMagnitude: Parameter-less FFT magnitude layer
//   - Sequential: Container for stacking layers
//
// Layers apply their functions through an autodiff.Tape, so gradients for
// parameters come from Tape.Backward and are attached with CollectGrads.
package nn

import (
	"github.com/born-ml/extops/internal/tensor"
)

// Module is the base interface for all layers.
//
// Every layer must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.RawTensor) (*tensor.RawTensor, error)

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter
}
