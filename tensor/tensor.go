// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense arrays passed to and
// returned from extops functions.
//
//   - RawTensor: row-major float32/float64 array with a Shape
//   - Shape, DataType: core type definitions
//   - ToDense/FromDense: conversion to and from gonum matrices
//
// Example:
//
//	x, err := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float64)
//	m, err := tensor.ToDense(x) // *mat.Dense
package tensor

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/extops/internal/tensor"
)

// RawTensor is a dense row-major array.
type RawTensor = tensor.RawTensor

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// ErrNotMatrix is returned when a 2D view is requested from a tensor of
// another rank.
var ErrNotMatrix = tensor.ErrNotMatrix

// NewRaw creates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromFloat64s creates a tensor from row-major values rounded to dtype.
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromFloat64s(values, shape, dtype)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Ones(shape, dtype)
}

// Randn creates a tensor drawn from N(0, 1). A nil rng uses math/rand.
func Randn(shape Shape, dtype DataType, rng *rand.Rand) (*RawTensor, error) {
	return tensor.Randn(shape, dtype, rng)
}

// ParseDataType maps "float32" or "float64" to a DataType.
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// ToDense copies a 2D tensor into a gonum matrix.
func ToDense(t *RawTensor) (*mat.Dense, error) {
	return tensor.ToDense(t)
}

// FromDense copies a gonum matrix into a 2D tensor of dtype.
func FromDense(m mat.Matrix, dtype DataType) (*RawTensor, error) {
	return tensor.FromDense(m, dtype)
}

// Sum returns the sum of all elements.
func Sum(t *RawTensor) float64 {
	return tensor.Sum(t)
}
