package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// NDayCycle is the exit-only kernel that closes a position n bars after the
// entry signal that opened it. Its exits depend on the combination's composite
// entry, so Compute only emits flat columns and the simulator fills them in
// through DeriveNDayExit once entries are known.
type NDayCycle struct{}

// NewNDayCycle creates the n-day cycle kernel.
func NewNDayCycle() Kernel {
	return &NDayCycle{}
}

func (n *NDayCycle) Kind() types.IndicatorKind {
	return types.IndicatorKindNDAY
}

func (n *NDayCycle) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "n", Type: types.ParamTypeInt},
	}
}

func (n *NDayCycle) Validate(params types.ParamSet) error {
	_, err := positiveInt(params, "n")

	return err
}

func (n *NDayCycle) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	for _, params := range batch {
		if err := n.Validate(params); err != nil {
			return nil, err
		}
	}

	return types.NewSignalMatrix(len(predictor), len(batch)), nil
}

// NDayPeriod returns the n parameter of an NDAY ParamSet.
func NDayPeriod(params types.ParamSet) (int, error) {
	return positiveInt(params, "n")
}

// DeriveNDayExit maps an entry column to its exit column: every non-flat
// entry at bar t produces the opposite signal at bar t+n.
func DeriveNDayExit(entry []int8, n int) []int8 {
	exit := make([]int8, len(entry))

	for t, sig := range entry {
		if sig == types.SignalFlat || t+n >= len(entry) {
			continue
		}

		exit[t+n] = -sig
	}

	return exit
}
