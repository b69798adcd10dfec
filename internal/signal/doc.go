// Package signal provides the 2D numeric routines that extops operations
// delegate to: real-input FFTs and cross-correlation / convolution with
// scipy-style boundary modes.
//
// All routines work on gonum matrices in float64 and never modify their
// arguments. Callers convert to and from tensors at the boundary.
//
// Boundary modes:
//   - Valid: only positions where the kernel fully overlaps the input,
//     output (H-kh+1, W-kw+1). The kernel must fit inside the input.
//   - Full: every position with any overlap, output (H+kh-1, W+kw-1).
//   - Same: the centre of Full with the input's shape.
//
// Convolve2D is Correlate2D with the kernel flipped along both axes.
package signal
