package signal

import "github.com/pkg/errors"

// Sentinel errors. Routines wrap them with shape details; match with errors.Is.
var (
	// ErrShapeMismatch reports operand shapes incompatible with the requested mode.
	ErrShapeMismatch = errors.New("signal: shape mismatch")

	// ErrInvalidMode reports an unknown boundary mode.
	ErrInvalidMode = errors.New("signal: invalid mode")

	// ErrEmpty reports an operand with a zero dimension.
	ErrEmpty = errors.New("signal: empty operand")

	// ErrInvalidLength reports an inverse FFT output length below one.
	ErrInvalidLength = errors.New("signal: invalid FFT length")
)
