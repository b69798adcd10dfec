// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/extops/autodiff"
	"github.com/born-ml/extops/nn"
	"github.com/born-ml/extops/tensor"
)

// TestPublicAPI_Correlation runs the layer through the public packages:
// forward, backward, parameter gradients and the gradient check.
func TestPublicAPI_Correlation(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	layer := nn.NewCorrelation2D(3, 3, nn.WithRand(rng))

	input, err := tensor.Randn(tensor.Shape{10, 10}, tensor.Float64, rng)
	require.NoError(t, err)

	out, err := layer.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{8, 8}, out.Shape())

	grads, err := autodiff.Backward(layer.Tape(), out)
	require.NoError(t, err)
	assert.Equal(t, 2, nn.CollectGrads(layer.Parameters(), grads))
	assert.Equal(t, input.Shape(), grads[input].Shape())

	opts := autodiff.GradCheckOptions{Eps: 1e-6, Atol: 1e-4, Rtol: 1e-3}
	require.NoError(t, autodiff.GradCheck(layer.AsFunction(), []*tensor.RawTensor{input}, opts))
}

func TestPublicAPI_FFTMagnitude(t *testing.T) {
	rng := rand.New(rand.NewSource(2025))
	input, err := tensor.Randn(tensor.Shape{8, 8}, tensor.Float64, rng)
	require.NoError(t, err)

	layer := nn.NewFFTMagnitude()
	out, err := layer.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{8, 5}, out.Shape())

	grads, err := autodiff.Backward(layer.Tape(), out)
	require.NoError(t, err)
	assert.Equal(t, input.Shape(), grads[input].Shape())

	err = autodiff.GradCheck(autodiff.NewFFTMagnitude(), []*tensor.RawTensor{input}, autodiff.DefaultGradCheckOptions())
	var mismatch *autodiff.GradientMismatchError
	assert.True(t, errors.As(err, &mismatch), "FFT magnitude backward is not exact, got %v", err)
}
