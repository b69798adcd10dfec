package tensor

import "fmt"

// Add returns a + b element-wise. Shapes must match exactly; the result has
// the dtype of a.
func Add(a, b *RawTensor) (*RawTensor, error) {
	if !a.Shape().Equal(b.Shape()) {
		return nil, fmt.Errorf("add: shape mismatch %v vs %v", a.Shape(), b.Shape())
	}
	out, err := NewRaw(a.Shape(), a.DType())
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.NumElements(); i++ {
		out.SetAt(i, a.At(i)+b.At(i))
	}
	return out, nil
}

// Cast returns a copy of t converted to dtype.
func Cast(t *RawTensor, dtype DataType) *RawTensor {
	if t.DType() == dtype {
		return t.Clone()
	}
	out, err := FromFloat64s(t.Float64s(), t.Shape(), dtype)
	if err != nil {
		// Shape was already validated when t was created.
		panic(fmt.Sprintf("cast: %v", err))
	}
	return out
}

// Sum returns the sum of all elements accumulated in float64.
func Sum(t *RawTensor) float64 {
	var s float64
	for i := 0; i < t.NumElements(); i++ {
		s += t.At(i)
	}
	return s
}
