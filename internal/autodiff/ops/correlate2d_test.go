package ops

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/extops/internal/signal"
	"github.com/born-ml/extops/internal/tensor"
)

func mustFrom(t *testing.T, values []float64, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat64s(values, shape, dtype)
	require.NoError(t, err)
	return r
}

func mustRandn(t *testing.T, rng *rand.Rand, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.Randn(shape, tensor.Float64, rng)
	require.NoError(t, err)
	return r
}

// TestCorrelate2D_ForwardValues tests the biased valid correlation.
func TestCorrelate2D_ForwardValues(t *testing.T) {
	op := NewCorrelate2D()
	ctx := NewContext()

	input := mustFrom(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, tensor.Float64)
	filter := mustFrom(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float64)
	bias := mustFrom(t, []float64{0.5}, tensor.Shape{1, 1}, tensor.Float64)

	out, err := op.Forward(ctx, input, filter, bias)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{37.5, 47.5, 67.5, 77.5}, out.Float64s())

	saved, err := ctx.SavedTensors()
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Same(t, input, saved[0])
	assert.Same(t, filter, saved[1])
	assert.Same(t, bias, saved[2])
}

// TestCorrelate2D_OutputShape checks (H-kh+1, W-kw+1) for many shape pairs.
func TestCorrelate2D_OutputShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	op := NewCorrelate2D()

	for h := 1; h <= 6; h++ {
		for w := 1; w <= 6; w++ {
			for kh := 1; kh <= h; kh++ {
				for kw := 1; kw <= w; kw++ {
					input := mustRandn(t, rng, tensor.Shape{h, w})
					filter := mustRandn(t, rng, tensor.Shape{kh, kw})
					bias := mustRandn(t, rng, tensor.Shape{1, 1})

					ctx := NewContext()
					out, err := op.Forward(ctx, input, filter, bias)
					require.NoError(t, err)
					require.Equal(t, tensor.Shape{h - kh + 1, w - kw + 1}, out.Shape())

					grad, err := tensor.Ones(out.Shape(), tensor.Float64)
					require.NoError(t, err)
					grads, err := op.Backward(ctx, grad)
					require.NoError(t, err)
					require.Equal(t, input.Shape(), grads[0].Shape(), "input %dx%d filter %dx%d", h, w, kh, kw)
					require.Equal(t, filter.Shape(), grads[1].Shape())
					require.Equal(t, bias.Shape(), grads[2].Shape())
				}
			}
		}
	}
}

// TestCorrelate2D_BackwardKnownValues checks all three gradients on a small case.
func TestCorrelate2D_BackwardKnownValues(t *testing.T) {
	op := NewCorrelate2D()
	ctx := NewContext()

	input := mustFrom(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, tensor.Float64)
	filter := mustFrom(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float64)
	bias := mustFrom(t, []float64{0}, tensor.Shape{1, 1}, tensor.Float64)

	out, err := op.Forward(ctx, input, filter, bias)
	require.NoError(t, err)

	grad, err := tensor.Ones(out.Shape(), tensor.Float64)
	require.NoError(t, err)

	grads, err := op.Backward(ctx, grad)
	require.NoError(t, err)
	require.Len(t, grads, 3)

	// Full convolution of ones(2,2) with the filter.
	assert.Equal(t, []float64{1, 3, 2, 4, 10, 6, 3, 7, 4}, grads[0].Float64s())
	// Sums of every 2x2 window of the input.
	assert.Equal(t, []float64{12, 16, 24, 28}, grads[1].Float64s())
	assert.Equal(t, []float64{4}, grads[2].Float64s())
}

// TestCorrelate2D_BiasGradientIsSum checks d_bias == sum(grad) for random grads.
func TestCorrelate2D_BiasGradientIsSum(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	op := NewCorrelate2D()

	for trial := 0; trial < 10; trial++ {
		input := mustRandn(t, rng, tensor.Shape{8, 7})
		filter := mustRandn(t, rng, tensor.Shape{3, 2})
		bias := mustRandn(t, rng, tensor.Shape{1, 1})

		ctx := NewContext()
		out, err := op.Forward(ctx, input, filter, bias)
		require.NoError(t, err)

		grad := mustRandn(t, rng, out.Shape())
		grads, err := op.Backward(ctx, grad)
		require.NoError(t, err)

		assert.InDelta(t, tensor.Sum(grad), grads[2].At(0), 1e-12)
	}
}

// TestCorrelate2D_Precision checks outputs follow the input and grad dtypes.
func TestCorrelate2D_Precision(t *testing.T) {
	op := NewCorrelate2D()
	ctx := NewContext()

	input := mustFrom(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float32)
	filter := mustFrom(t, []float64{0.1}, tensor.Shape{1, 1}, tensor.Float64)
	bias := mustFrom(t, []float64{0.2}, tensor.Shape{1, 1}, tensor.Float64)

	out, err := op.Forward(ctx, input, filter, bias)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, out.DType())

	grad := mustFrom(t, []float64{1, 1, 1, 1}, tensor.Shape{2, 2}, tensor.Float32)
	grads, err := op.Backward(ctx, grad)
	require.NoError(t, err)
	for _, g := range grads {
		assert.Equal(t, tensor.Float32, g.DType())
	}
}

func TestCorrelate2D_Errors(t *testing.T) {
	op := NewCorrelate2D()
	small := mustFrom(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float64)
	big := mustFrom(t, make([]float64, 9), tensor.Shape{3, 3}, tensor.Float64)
	scalar := mustFrom(t, []float64{1}, tensor.Shape{1, 1}, tensor.Float64)
	vec := mustFrom(t, []float64{1, 2}, tensor.Shape{2}, tensor.Float64)

	t.Run("arity", func(t *testing.T) {
		_, err := op.Forward(NewContext(), small, small)
		require.ErrorIs(t, err, ErrArity)
	})

	t.Run("filter larger than input", func(t *testing.T) {
		_, err := op.Forward(NewContext(), small, big, scalar)
		require.ErrorIs(t, err, signal.ErrShapeMismatch)
	})

	t.Run("bias not scalar", func(t *testing.T) {
		_, err := op.Forward(NewContext(), big, small, small)
		require.ErrorIs(t, err, signal.ErrShapeMismatch)
	})

	t.Run("input not 2D", func(t *testing.T) {
		_, err := op.Forward(NewContext(), vec, scalar, scalar)
		require.ErrorIs(t, err, tensor.ErrNotMatrix)
	})

	t.Run("grad shape", func(t *testing.T) {
		ctx := NewContext()
		_, err := op.Forward(ctx, big, small, scalar)
		require.NoError(t, err)
		_, err = op.Backward(ctx, big)
		require.ErrorIs(t, err, signal.ErrShapeMismatch)
	})

	t.Run("backward without forward", func(t *testing.T) {
		_, err := op.Backward(NewContext(), small)
		require.Error(t, err)
	})

	t.Run("saved tensors not 2D", func(t *testing.T) {
		ctx := NewContext()
		ctx.SaveForBackward(vec, small, scalar)
		_, err := op.Backward(ctx, small)
		require.ErrorIs(t, err, tensor.ErrNotMatrix)
		assert.Contains(t, err.Error(), "correlate2d backward: input")

		ctx = NewContext()
		ctx.SaveForBackward(big, vec, scalar)
		_, err = op.Backward(ctx, small)
		require.ErrorIs(t, err, tensor.ErrNotMatrix)
		assert.Contains(t, err.Error(), "correlate2d backward: filter")
	})

	t.Run("released context", func(t *testing.T) {
		ctx := NewContext()
		out, err := op.Forward(ctx, big, small, scalar)
		require.NoError(t, err)
		ctx.Release()
		_, err = op.Backward(ctx, out)
		require.ErrorIs(t, err, ErrContextReleased)
	})
}

// TestCorrelate2D_IndependentContexts checks that interleaved forward calls
// do not overwrite each other's saved state.
func TestCorrelate2D_IndependentContexts(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	op := NewCorrelate2D()

	inA := mustRandn(t, rng, tensor.Shape{4, 4})
	inB := mustRandn(t, rng, tensor.Shape{5, 6})
	filter := mustRandn(t, rng, tensor.Shape{2, 2})
	bias := mustRandn(t, rng, tensor.Shape{1, 1})

	ctxA, ctxB := NewContext(), NewContext()
	outA, err := op.Forward(ctxA, inA, filter, bias)
	require.NoError(t, err)
	outB, err := op.Forward(ctxB, inB, filter, bias)
	require.NoError(t, err)

	gradA, err := tensor.Ones(outA.Shape(), tensor.Float64)
	require.NoError(t, err)
	gradsA, err := op.Backward(ctxA, gradA)
	require.NoError(t, err)
	assert.Equal(t, inA.Shape(), gradsA[0].Shape())

	gradB, err := tensor.Ones(outB.Shape(), tensor.Float64)
	require.NoError(t, err)
	gradsB, err := op.Backward(ctxB, gradB)
	require.NoError(t, err)
	assert.Equal(t, inB.Shape(), gradsB[0].Shape())
}
