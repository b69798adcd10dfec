package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level tensor representation: a row-major byte buffer
// tagged with its shape and element type.
//
// A RawTensor owns its buffer. Operations never modify their inputs; they
// allocate a new RawTensor for every result.
type RawTensor struct {
	data  []byte   // Element storage
	shape Shape    // Tensor dimensions
	dtype DataType // Runtime type information
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if dtype != Float32 && dtype != Float64 {
		return nil, fmt.Errorf("invalid dtype: %d", dtype)
	}

	return &RawTensor{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// At returns the element at flat (row-major) index i widened to float64.
func (r *RawTensor) At(i int) float64 {
	if r.dtype == Float32 {
		return float64(r.AsFloat32()[i])
	}
	return r.AsFloat64()[i]
}

// SetAt stores v at flat index i, rounding to the tensor's precision.
func (r *RawTensor) SetAt(i int, v float64) {
	if r.dtype == Float32 {
		r.AsFloat32()[i] = float32(v)
		return
	}
	r.AsFloat64()[i] = v
}

// Float64s returns a float64 copy of the elements in row-major order.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	if r.dtype == Float64 {
		copy(out, r.AsFloat64())
		return out
	}
	for i, v := range r.AsFloat32() {
		out[i] = float64(v)
	}
	return out
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:  data,
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// String returns a short description such as "float64[3 4]".
func (r *RawTensor) String() string {
	return fmt.Sprintf("%s%v", r.dtype, []int(r.shape))
}
