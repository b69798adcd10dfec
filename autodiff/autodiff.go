// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides custom differentiable functions and the tools to
// run them forward and backward.
//
// A Function pairs a forward pass with a hand-written backward pass; the
// Context passed to both carries the values saved in between. Functions are
// applied through a Tape, which replays backward passes in reverse order.
//
// Example:
//
//	tape := autodiff.NewTape()
//	tape.StartRecording()
//
//	out, err := tape.Apply(autodiff.NewCorrelate2D(), input, filter, bias)
//	grads, err := autodiff.Backward(tape, out)
//
//	// Check the backward pass against finite differences.
//	err = autodiff.GradCheck(autodiff.NewCorrelate2D(),
//	    []*tensor.RawTensor{input, filter, bias},
//	    autodiff.GradCheckOptions{Eps: 1e-6, Atol: 1e-4, Rtol: 1e-3})
package autodiff

import (
	"github.com/born-ml/extops/internal/autodiff"
	"github.com/born-ml/extops/internal/autodiff/ops"
	"github.com/born-ml/extops/internal/tensor"
)

// Function is a custom differentiable operation.
type Function = ops.Function

// Context carries values from one forward call to its backward call.
type Context = ops.Context

// NewContext returns an empty context.
func NewContext() *Context {
	return ops.NewContext()
}

// Tape records function applications for reverse-mode differentiation.
type Tape = autodiff.Tape

// NewTape creates a new tape. Call StartRecording before applying functions.
func NewTape() *Tape {
	return autodiff.NewTape()
}

// Backward computes the gradients of sum(output) over the tape.
func Backward(tape *Tape, output *tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	return autodiff.Backward(tape, output)
}

// Apply runs fn forward once and returns the Context for fn.Backward.
func Apply(fn Function, inputs ...*tensor.RawTensor) (*tensor.RawTensor, *Context, error) {
	return autodiff.Apply(fn, inputs...)
}

// Bind fixes the trailing inputs of fn.
func Bind(fn Function, fixed ...*tensor.RawTensor) Function {
	return ops.Bind(fn, fixed...)
}

// FFTMagnitude is |RFFT2(x)| with an illustrative (inexact) backward.
type FFTMagnitude = ops.FFTMagnitude

// NewFFTMagnitude creates the FFT magnitude function.
func NewFFTMagnitude() *FFTMagnitude {
	return ops.NewFFTMagnitude()
}

// Correlate2D is valid 2D cross-correlation plus scalar bias.
type Correlate2D = ops.Correlate2D

// NewCorrelate2D creates the correlation function.
func NewCorrelate2D() *Correlate2D {
	return ops.NewCorrelate2D()
}

// GradCheckOptions configures GradCheck.
type GradCheckOptions = autodiff.GradCheckOptions

// DefaultGradCheckOptions returns eps=1e-6, atol=1e-5, rtol=1e-3.
func DefaultGradCheckOptions() GradCheckOptions {
	return autodiff.DefaultGradCheckOptions()
}

// GradientMismatchError reports a Jacobian entry failing GradCheck.
type GradientMismatchError = autodiff.GradientMismatchError

// GradCheck verifies fn.Backward against central finite differences.
func GradCheck(fn Function, inputs []*tensor.RawTensor, opts GradCheckOptions) error {
	return autodiff.GradCheck(fn, inputs, opts)
}

// Errors.
var (
	ErrNoGraph         = autodiff.ErrNoGraph
	ErrPrecision       = autodiff.ErrPrecision
	ErrGradientShape   = autodiff.ErrGradientShape
	ErrContextReleased = ops.ErrContextReleased
	ErrArity           = ops.ErrArity
)
