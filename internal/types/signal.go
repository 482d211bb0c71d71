package types

import "github.com/rxtech-lab/argo-vector/pkg/errors"

// Signal values stored in a SignalMatrix.
const (
	SignalShort int8 = -1
	SignalFlat  int8 = 0
	SignalLong  int8 = 1
)

// SignalMatrix is a row-major time x batch matrix of -1/0/+1 signals.
// Column j belongs to the j-th ParamSet of the batch that produced it.
type SignalMatrix struct {
	Rows int
	Cols int
	Data []int8
}

// NewSignalMatrix returns an all-flat matrix.
func NewSignalMatrix(rows, cols int) *SignalMatrix {
	return &SignalMatrix{
		Rows: rows,
		Cols: cols,
		Data: make([]int8, rows*cols),
	}
}

// NewSignalMatrixFromColumns stacks equal-length columns.
func NewSignalMatrixFromColumns(rows int, columns [][]int8) (*SignalMatrix, error) {
	m := NewSignalMatrix(rows, len(columns))

	for j, col := range columns {
		if err := m.SetColumn(j, col); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *SignalMatrix) At(t, col int) int8 {
	return m.Data[t*m.Cols+col]
}

func (m *SignalMatrix) Set(t, col int, v int8) {
	m.Data[t*m.Cols+col] = v
}

// Column copies column j out of the matrix.
func (m *SignalMatrix) Column(j int) []int8 {
	out := make([]int8, m.Rows)
	for t := 0; t < m.Rows; t++ {
		out[t] = m.Data[t*m.Cols+j]
	}

	return out
}

// SetColumn overwrites column j.
func (m *SignalMatrix) SetColumn(j int, col []int8) error {
	if len(col) != m.Rows {
		return errors.Newf(errors.ErrCodeSignalShapeMismatch, "column has %d rows, matrix has %d", len(col), m.Rows)
	}

	for t, v := range col {
		m.Data[t*m.Cols+j] = v
	}

	return nil
}

// NonZero counts the non-flat cells of column j.
func (m *SignalMatrix) NonZero(j int) int {
	count := 0

	for t := 0; t < m.Rows; t++ {
		if m.Data[t*m.Cols+j] != SignalFlat {
			count++
		}
	}

	return count
}
