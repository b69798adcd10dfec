// Package autodiff runs custom differentiable functions forward and backward.
//
// Architecture:
//   - ops.Function: the forward/backward contract implemented by each op
//   - ops.Context: per-call saved state bridging one forward and one backward
//   - Tape: records applied functions and walks them in reverse
//   - GradCheck: compares Backward against finite differences
//
// Usage:
//
//	tape := autodiff.NewTape()
//	tape.StartRecording()
//	out, err := tape.Apply(ops.NewCorrelate2D(), input, filter, bias)
//	grads, err := autodiff.Backward(tape, out)
//	dFilter := grads[filter]
package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/extops/internal/autodiff/ops"
	"github.com/born-ml/extops/internal/tensor"
)

// ErrNoGraph is returned by Backward when the output was not produced by a
// recorded function.
var ErrNoGraph = errors.New("autodiff: output not produced by a recorded function")

// node is one recorded function application.
type node struct {
	fn     ops.Function
	ctx    *ops.Context
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// Tape records function applications during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
//
// A Tape is not safe for concurrent use.
type Tape struct {
	nodes     []node // Recorded applications (in execution order)
	recording bool   // Whether tape is currently recording
}

// NewTape creates a new tape. Recording is off until StartRecording.
func NewTape() *Tape {
	return &Tape{
		nodes: make([]node, 0, 16),
	}
}

// StartRecording enables recording.
func (t *Tape) StartRecording() {
	t.recording = true
}

// StopRecording disables recording.
func (t *Tape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording.
func (t *Tape) IsRecording() bool {
	return t.recording
}

// Clear removes all recorded applications and releases their contexts.
// Recording state is preserved.
func (t *Tape) Clear() {
	for i := range t.nodes {
		t.nodes[i].ctx.Release()
	}
	t.nodes = t.nodes[:0]
}

// NumOps returns the number of recorded applications.
func (t *Tape) NumOps() int {
	return len(t.nodes)
}

// Apply runs fn forward on inputs with a fresh Context and, when recording,
// remembers the application for Backward.
func (t *Tape) Apply(fn ops.Function, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	ctx := ops.NewContext()
	out, err := fn.Forward(ctx, inputs...)
	if err != nil {
		return nil, err
	}
	if t.recording {
		t.nodes = append(t.nodes, node{
			fn:     fn,
			ctx:    ctx,
			inputs: append([]*tensor.RawTensor(nil), inputs...),
			output: out,
		})
	}
	return out, nil
}

// Backward computes gradients of every tensor that contributed to output by
// walking the tape in reverse.
//
// Algorithm:
//  1. Seed output with outputGrad
//  2. Walk recorded applications in reverse order
//  3. For each application whose output has a gradient, call Backward
//  4. Accumulate gradients when the same tensor feeds several applications
//
// Each application's Context is released after its backward pass and the
// application is removed from the tape, so the tape only holds applications
// not yet differentiated. A second Backward from the same output fails with
// ErrNoGraph.
//
// Gradients are returned in the dtype of the tensor they belong to.
// Returns a map from tensor to its accumulated gradient.
func (t *Tape) Backward(output, outputGrad *tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if !t.produced(output) {
		return nil, ErrNoGraph
	}
	if !outputGrad.Shape().Equal(output.Shape()) {
		return nil, errors.Errorf("autodiff: output grad shape %v, output shape %v",
			outputGrad.Shape(), output.Shape())
	}

	// Stop recording so nothing applied from a backward pass is recorded.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
		t.prune()
	}()

	grads := map[*tensor.RawTensor]*tensor.RawTensor{output: outputGrad}

	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		grad, ok := grads[n.output]
		if !ok {
			continue
		}
		if n.ctx.Released() {
			return nil, errors.Wrapf(ops.ErrContextReleased, "%s", n.fn.Name())
		}
		inputGrads, err := n.fn.Backward(n.ctx, grad)
		n.ctx.Release()
		if err != nil {
			return nil, errors.Wrapf(err, "backward %s", n.fn.Name())
		}
		if err := accumulate(grads, n.inputs, inputGrads); err != nil {
			return nil, errors.Wrapf(err, "backward %s", n.fn.Name())
		}
	}
	return grads, nil
}

// prune drops applications whose contexts have been released.
func (t *Tape) prune() {
	kept := t.nodes[:0]
	for _, n := range t.nodes {
		if !n.ctx.Released() {
			kept = append(kept, n)
		}
	}
	clear(t.nodes[len(kept):])
	t.nodes = kept
}

func (t *Tape) produced(output *tensor.RawTensor) bool {
	for i := range t.nodes {
		if t.nodes[i].output == output {
			return true
		}
	}
	return false
}

// accumulate adds each input gradient, cast to the input's dtype, into grads.
func accumulate(grads map[*tensor.RawTensor]*tensor.RawTensor, inputs, inputGrads []*tensor.RawTensor) error {
	for j, input := range inputs {
		if j >= len(inputGrads) {
			break
		}
		g := inputGrads[j]
		if g == nil {
			continue
		}
		if g.DType() != input.DType() {
			g = tensor.Cast(g, input.DType())
		}
		existing, ok := grads[input]
		if !ok {
			grads[input] = g
			continue
		}
		sum, err := tensor.Add(existing, g)
		if err != nil {
			return err
		}
		grads[input] = sum
	}
	return nil
}

// Backward computes gradients for output seeded with ones, i.e. the
// gradients of sum(output).
//
// Example:
//
//	tape.StartRecording()
//	y, _ := tape.Apply(fn, x)
//	grads, _ := autodiff.Backward(tape, y)
//	dx := grads[x]
func Backward(tape *Tape, output *tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if tape.NumOps() == 0 {
		return nil, errors.Wrap(ErrNoGraph, "no operations recorded (did you forget to call StartRecording()?)")
	}
	seed, err := tensor.Ones(output.Shape(), output.DType())
	if err != nil {
		return nil, err
	}
	return tape.Backward(output, seed)
}

// Apply runs fn forward once without a tape and returns the output together
// with the Context to pass to fn.Backward.
func Apply(fn ops.Function, inputs ...*tensor.RawTensor) (*tensor.RawTensor, *ops.Context, error) {
	ctx := ops.NewContext()
	out, err := fn.Forward(ctx, inputs...)
	if err != nil {
		return nil, nil, err
	}
	return out, ctx, nil
}
