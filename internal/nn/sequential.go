package nn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/extops/internal/autodiff"
	"github.com/born-ml/extops/internal/tensor"
)

// ErrTapeMismatch is returned by Sequential.Forward when its modules record
// on different tapes.
var ErrTapeMismatch = errors.New("nn: modules record on different tapes")

// taped is implemented by modules that apply their functions through a tape.
type taped interface {
	Tape() *autodiff.Tape
}

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. For the chain to be
// differentiable end to end the modules must share one tape (WithTape).
//
// Example:
//
//	tape := autodiff.NewTape()
//	tape.StartRecording()
//	model := nn.NewSequential(
//	    nn.NewCorrelation2D(3, 3, nn.WithTape(tape)),
//	    nn.NewCorrelation2D(2, 2, nn.WithTape(tape)),
//	)
//	out, err := model.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
// Stops at the first error, reporting the failing module's index.
// Returns ErrTapeMismatch before running anything if the modules do not
// share one tape.
func (s *Sequential) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	if _, err := s.sharedTape(); err != nil {
		return nil, err
	}
	output := input
	for i, module := range s.modules {
		out, err := module.Forward(output)
		if err != nil {
			return nil, errors.Wrapf(err, "sequential: module %d", i)
		}
		output = out
	}
	return output, nil
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Tape returns the tape shared by the modules, or nil if no module records
// on a tape.
func (s *Sequential) Tape() *autodiff.Tape {
	tape, err := s.sharedTape()
	if err != nil {
		return nil
	}
	return tape
}

func (s *Sequential) sharedTape() (*autodiff.Tape, error) {
	var shared *autodiff.Tape
	first := 0
	for i, module := range s.modules {
		m, ok := module.(taped)
		if !ok {
			continue
		}
		switch tape := m.Tape(); {
		case shared == nil:
			shared, first = tape, i
		case tape != shared:
			return nil, errors.Wrapf(ErrTapeMismatch, "sequential: modules %d and %d", first, i)
		}
	}
	return shared, nil
}
