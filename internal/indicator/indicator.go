package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// ParamSpec describes one parameter a kernel accepts.
type ParamSpec struct {
	Name string
	Type types.ParamType
	// Enum lists the allowed values of an enum parameter.
	Enum []string
}

// Kernel computes signals for one indicator kind. Compute receives a batch of
// ParamSets of that kind and makes a single pass over time for the whole
// batch. Column j of the result depends only on batch[j].
type Kernel interface {
	// Kind returns the indicator kind served by the kernel
	Kind() types.IndicatorKind
	// Compute returns a len(predictor) x len(batch) signal matrix
	Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error)
	// Validate checks the kind-specific parameters of one ParamSet
	Validate(params types.ParamSet) error
	// Schema lists the parameters the kernel understands
	Schema() []ParamSpec
}

// variantOf reads the shared "variant" parameter and checks its range.
func variantOf(params types.ParamSet, max int) (int, error) {
	variant, err := params.Int("variant")
	if err != nil {
		return 0, err
	}

	if variant < 1 || variant > max {
		return 0, invalidParam(params, "variant must be between 1 and %d, got %d", max, variant)
	}

	return variant, nil
}

// positiveInt reads an int parameter that must be >= 1.
func positiveInt(params types.ParamSet, name string) (int, error) {
	v, err := params.Int(name)
	if err != nil {
		return 0, err
	}

	if v <= 0 {
		return 0, invalidParam(params, "%s must be a positive integer, got %d", name, v)
	}

	return v, nil
}
