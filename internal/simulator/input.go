package simulator

import (
	"github.com/rxtech-lab/argo-vector/internal/grouping"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// Input is one unit of work for the simulator. Column j of every slot matrix
// belongs to Members[j]. Exit slots whose kind is exit-only may be nil; their
// columns are derived from the composite entry.
type Input struct {
	Series           *types.PriceSeries
	Signature        types.ShapeSignature
	Entries          []*types.SignalMatrix
	Exits            []*types.SignalMatrix
	Members          []grouping.Member
	Params           types.TradingParams
	RecordTrajectory bool
}

func (in Input) validate() error {
	if in.Series == nil {
		return errors.New(errors.ErrCodeEmptySeries, "simulator: input has no series")
	}

	rows, cols := in.Series.Len(), len(in.Members)

	if len(in.Entries) != in.Signature.EntryCount || len(in.Exits) != in.Signature.ExitCount {
		return errors.Newf(errors.ErrCodeSignalShapeMismatch,
			"simulator: %d entry and %d exit slots for signature %s", len(in.Entries), len(in.Exits), in.Signature)
	}

	check := func(role types.SignalRole, slot int, m *types.SignalMatrix) error {
		if m.Rows != rows || m.Cols != cols {
			return errors.Newf(errors.ErrCodeSignalShapeMismatch,
				"simulator: %s slot %d is %dx%d, want %dx%d", role, slot, m.Rows, m.Cols, rows, cols)
		}

		return nil
	}

	for i, m := range in.Entries {
		if m == nil {
			return errors.Newf(errors.ErrCodeSignalShapeMismatch, "simulator: entry slot %d is empty", i)
		}

		if err := check(types.SignalRoleEntry, i, m); err != nil {
			return err
		}
	}

	for i, m := range in.Exits {
		if m == nil {
			if !in.Signature.ExitKinds[i].IsExitOnly() {
				return errors.Newf(errors.ErrCodeSignalShapeMismatch, "simulator: exit slot %d is empty", i)
			}

			continue
		}

		if err := check(types.SignalRoleExit, i, m); err != nil {
			return err
		}
	}

	return nil
}

// column returns an input restricted to column j.
func (in Input) column(j int) Input {
	out := in
	out.Members = in.Members[j : j+1]
	out.Entries = sliceColumn(in.Entries, j)
	out.Exits = sliceColumn(in.Exits, j)

	return out
}

func sliceColumn(slots []*types.SignalMatrix, j int) []*types.SignalMatrix {
	out := make([]*types.SignalMatrix, len(slots))

	for i, m := range slots {
		if m == nil {
			continue
		}

		single := types.NewSignalMatrix(m.Rows, 1)
		for t := 0; t < m.Rows; t++ {
			single.Data[t] = m.At(t, j)
		}

		out[i] = single
	}

	return out
}
