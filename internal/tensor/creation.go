package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype)
}

// Ones creates a tensor filled with ones.
//
// Ones is the usual seed gradient for Tape.Backward when the output is
// treated as a plain sum.
func Ones(shape Shape, dtype DataType) (*RawTensor, error) {
	return Full(shape, 1, dtype)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64, dtype DataType) (*RawTensor, error) {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.NumElements(); i++ {
		t.SetAt(i, value)
	}
	return t, nil
}

// FromFloat64s creates a tensor from row-major values, rounding them to dtype.
//
// Example:
//
//	t, err := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float32)
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(values), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if dtype == Float64 {
		copy(t.AsFloat64(), values)
		return t, nil
	}
	data := t.AsFloat32()
	for i, v := range values {
		data[i] = float32(v)
	}
	return t, nil
}

// Randn creates a tensor with values drawn from N(0, 1) using rng.
// Uses the Box-Muller transform. A nil rng uses the global math/rand source.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	w, err := tensor.Randn(Shape{3, 3}, Float64, rng)
func Randn(shape Shape, dtype DataType, rng *rand.Rand) (*RawTensor, error) {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	uniform := rand.Float64 //nolint:gosec // G404: weight init does not need crypto/rand
	if rng != nil {
		uniform = rng.Float64
	}

	n := t.NumElements()
	for i := 0; i < n; i += 2 {
		u1 := 1 - uniform() // (0, 1], keeps Log finite
		u2 := uniform()
		r := math.Sqrt(-2.0 * math.Log(u1))
		t.SetAt(i, r*math.Cos(2.0*math.Pi*u2))
		if i+1 < n {
			t.SetAt(i+1, r*math.Sin(2.0*math.Pi*u2))
		}
	}
	return t, nil
}

// OneHot creates a tensor of zeros with a single one at flat index i.
func OneHot(shape Shape, i int, dtype DataType) (*RawTensor, error) {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= t.NumElements() {
		return nil, fmt.Errorf("one-hot index %d out of range for shape %v", i, shape)
	}
	t.SetAt(i, 1)
	return t, nil
}
