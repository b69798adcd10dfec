package autodiff

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/extops/internal/autodiff/ops"
	"github.com/born-ml/extops/internal/tensor"
)

var (
	// ErrPrecision is returned by GradCheck for inputs that are not float64.
	// Central differences with eps around 1e-6 are meaningless in float32.
	ErrPrecision = errors.New("autodiff: gradient check requires float64 inputs")

	// ErrGradientShape is returned when Backward yields a gradient whose
	// shape differs from its input.
	ErrGradientShape = errors.New("autodiff: gradient shape differs from input shape")
)

// GradCheckOptions configures GradCheck.
type GradCheckOptions struct {
	Eps  float64 // Perturbation for central differences.
	Atol float64 // Absolute tolerance.
	Rtol float64 // Tolerance relative to the numerical value.
}

// DefaultGradCheckOptions returns eps=1e-6, atol=1e-5, rtol=1e-3.
func DefaultGradCheckOptions() GradCheckOptions {
	return GradCheckOptions{
		Eps:  1e-6,
		Atol: 1e-5,
		Rtol: 1e-3,
	}
}

// GradientMismatchError reports the first Jacobian entry where the analytical
// gradient disagrees with the numerical estimate.
type GradientMismatchError struct {
	Function   string
	Input      int // Index of the input being checked.
	Output     int // Flat index of the output element.
	Element    int // Flat index of the input element.
	Numerical  float64
	Analytical float64
}

func (e *GradientMismatchError) Error() string {
	return fmt.Sprintf("gradcheck %s: d out[%d] / d input%d[%d]: numerical %.6g, analytical %.6g (diff %.3g)",
		e.Function, e.Output, e.Input, e.Element, e.Numerical, e.Analytical,
		math.Abs(e.Numerical-e.Analytical))
}

// GradCheck verifies fn.Backward against central finite differences.
//
// For every input k it builds the numerical Jacobian
//
//	J[o][e] = (f(x_k + eps·1_e)[o] - f(x_k - eps·1_e)[o]) / 2eps
//
// and the analytical Jacobian by running Backward with a one-hot output
// gradient for each output element o. Entries must satisfy
// |analytical - numerical| <= Atol + Rtol·|numerical|.
//
// Returns nil on success, a *GradientMismatchError on the first mismatch, or
// the error raised by fn.
func GradCheck(fn ops.Function, inputs []*tensor.RawTensor, opts GradCheckOptions) error {
	for i, in := range inputs {
		if in.DType() != tensor.Float64 {
			return errors.Wrapf(ErrPrecision, "%s: input %d is %s", fn.Name(), i, in.DType())
		}
	}

	out, _, err := Apply(fn, inputs...)
	if err != nil {
		return err
	}

	analytical, err := analyticalJacobian(fn, inputs, out)
	if err != nil {
		return err
	}

	for k := range inputs {
		numerical, err := numericalJacobian(fn, inputs, k, out.NumElements(), opts.Eps)
		if err != nil {
			return err
		}
		for o := range numerical {
			for e, n := range numerical[o] {
				a := analytical[k][o][e]
				if !scalar.EqualWithinAbs(a, n, opts.Atol+opts.Rtol*math.Abs(n)) {
					return &GradientMismatchError{
						Function:   fn.Name(),
						Input:      k,
						Output:     o,
						Element:    e,
						Numerical:  n,
						Analytical: a,
					}
				}
			}
		}
	}
	return nil
}

// analyticalJacobian returns J[k][o][e] = d out[o] / d inputs[k][e] from Backward.
// Each row uses its own forward pass so every Context sees one backward call.
func analyticalJacobian(fn ops.Function, inputs []*tensor.RawTensor, out *tensor.RawTensor) ([][][]float64, error) {
	nOut := out.NumElements()
	jac := make([][][]float64, len(inputs))
	for k, in := range inputs {
		jac[k] = make([][]float64, nOut)
		for o := range jac[k] {
			jac[k][o] = make([]float64, in.NumElements())
		}
	}

	for o := 0; o < nOut; o++ {
		_, ctx, err := Apply(fn, inputs...)
		if err != nil {
			return nil, err
		}
		seed, err := tensor.OneHot(out.Shape(), o, tensor.Float64)
		if err != nil {
			return nil, err
		}
		grads, err := fn.Backward(ctx, seed)
		ctx.Release()
		if err != nil {
			return nil, err
		}
		for k, in := range inputs {
			if k >= len(grads) || grads[k] == nil {
				continue // no gradient: row stays zero
			}
			if !grads[k].Shape().Equal(in.Shape()) {
				return nil, errors.Wrapf(ErrGradientShape, "%s: input %d shape %v, gradient shape %v",
					fn.Name(), k, in.Shape(), grads[k].Shape())
			}
			for e := range jac[k][o] {
				jac[k][o][e] = grads[k].At(e)
			}
		}
	}
	return jac, nil
}

// numericalJacobian returns J[o][e] = d out[o] / d inputs[k][e] by central
// differences. inputs are not modified; input k is replaced by a perturbed copy.
func numericalJacobian(fn ops.Function, inputs []*tensor.RawTensor, k, nOut int, eps float64) ([][]float64, error) {
	perturbed := inputs[k].Clone()
	args := append([]*tensor.RawTensor(nil), inputs...)
	args[k] = perturbed

	nIn := perturbed.NumElements()
	jac := make([][]float64, nOut)
	for o := range jac {
		jac[o] = make([]float64, nIn)
	}

	eval := func() (*tensor.RawTensor, error) {
		out, _, err := Apply(fn, args...)
		return out, err
	}

	for e := 0; e < nIn; e++ {
		orig := perturbed.At(e)

		perturbed.SetAt(e, orig+eps)
		plus, err := eval()
		if err != nil {
			return nil, err
		}
		perturbed.SetAt(e, orig-eps)
		minus, err := eval()
		if err != nil {
			return nil, err
		}
		perturbed.SetAt(e, orig)

		for o := 0; o < nOut; o++ {
			jac[o][e] = (plus.At(o) - minus.At(o)) / (2 * eps)
		}
	}
	return jac, nil
}
