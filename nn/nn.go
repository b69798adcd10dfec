// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides layers built from custom differentiable functions.
//
// Example:
//
//	layer := nn.NewCorrelation2D(3, 3)
//	out, err := layer.Forward(input)
//	grads, err := autodiff.Backward(layer.Tape(), out)
//	nn.CollectGrads(layer.Parameters(), grads)
//
//	for _, p := range layer.Parameters() {
//	    fmt.Println(p.Name(), p.Grad())
//	}
package nn

import (
	"github.com/born-ml/extops/internal/nn"
	"github.com/born-ml/extops/internal/tensor"
)

// Module is the base interface for all layers.
type Module = nn.Module

// Parameter is a trainable tensor owned by a layer.
type Parameter = nn.Parameter

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, t)
}

// CollectGrads attaches Tape.Backward gradients to params.
func CollectGrads(params []*Parameter, grads map[*tensor.RawTensor]*tensor.RawTensor) int {
	return nn.CollectGrads(params, grads)
}

// Option configures a layer.
type Option = nn.Option

// Layer options.
var (
	WithDType = nn.WithDType
	WithRand  = nn.WithRand
	WithTape  = nn.WithTape
)

// Correlation2D is a learnable 2D correlation filter plus scalar bias.
type Correlation2D = nn.Correlation2D

// NewCorrelation2D creates the layer with N(0, 1) filter and bias.
func NewCorrelation2D(filterWidth, filterHeight int, opts ...Option) *Correlation2D {
	return nn.NewCorrelation2D(filterWidth, filterHeight, opts...)
}

// FFTMagnitude is a parameter-less FFT magnitude layer.
type FFTMagnitude = nn.FFTMagnitude

// NewFFTMagnitude creates the layer.
func NewFFTMagnitude(opts ...Option) *FFTMagnitude {
	return nn.NewFFTMagnitude(opts...)
}

// ErrTapeMismatch is returned by Sequential.Forward when its modules record
// on different tapes.
var ErrTapeMismatch = nn.ErrTapeMismatch

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}
