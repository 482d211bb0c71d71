package simulator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// Combine merges slot matrices by unanimous agreement: a cell is +1 when every
// slot is +1, -1 when every slot is -1, and 0 otherwise. A single slot is
// returned as a copy.
func Combine(slots []*types.SignalMatrix) (*types.SignalMatrix, error) {
	if len(slots) == 0 {
		return nil, errors.New(errors.ErrCodeSignalShapeMismatch, "Combine: no slots")
	}

	rows, cols := slots[0].Rows, slots[0].Cols
	for i, slot := range slots {
		if slot.Rows != rows || slot.Cols != cols {
			return nil, errors.Newf(errors.ErrCodeSignalShapeMismatch,
				"Combine: slot %d is %dx%d, want %dx%d", i, slot.Rows, slot.Cols, rows, cols)
		}
	}

	out := types.NewSignalMatrix(rows, cols)
	copy(out.Data, slots[0].Data)

	for _, slot := range slots[1:] {
		for k, v := range slot.Data {
			if out.Data[k] != v {
				out.Data[k] = types.SignalFlat
			}
		}
	}

	return out, nil
}
