package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNotMatrix is returned when a 2D view is requested from a tensor of
// another rank.
var ErrNotMatrix = errors.New("tensor is not 2-dimensional")

// ToDense copies a 2D tensor into a gonum dense matrix (always float64).
func ToDense(t *RawTensor) (*mat.Dense, error) {
	if !t.Shape().IsMatrix() {
		return nil, fmt.Errorf("to dense: shape %v: %w", t.Shape(), ErrNotMatrix)
	}
	return mat.NewDense(t.Shape()[0], t.Shape()[1], t.Float64s()), nil
}

// FromDense copies a gonum matrix into a new 2D tensor of the given dtype.
// Values are rounded to the target precision.
func FromDense(m mat.Matrix, dtype DataType) (*RawTensor, error) {
	r, c := m.Dims()
	t, err := NewRaw(Shape{r, c}, dtype)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.SetAt(i*c+j, m.At(i, j))
		}
	}
	return t, nil
}
