package simulator

import (
	"testing"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CombineTestSuite struct {
	suite.Suite
}

func TestCombineSuite(t *testing.T) {
	suite.Run(t, new(CombineTestSuite))
}

func (suite *CombineTestSuite) TestUnanimous() {
	a := matrix([]int8{1, 1, -1, -1, 0, 1})
	b := matrix([]int8{1, -1, -1, 0, 0, 1})
	c := matrix([]int8{1, 1, -1, -1, 0, 0})

	out, err := Combine([]*types.SignalMatrix{a, b, c})
	suite.NoError(err)
	suite.Equal([]int8{1, 0, -1, 0, 0, 0}, out.Column(0))
}

func (suite *CombineTestSuite) TestSingleSlotIsCopied() {
	a := matrix([]int8{1, 0, -1})

	out, err := Combine([]*types.SignalMatrix{a})
	suite.NoError(err)
	suite.Equal(a.Data, out.Data)

	out.Set(0, 0, 0)
	suite.Equal(int8(1), a.At(0, 0))
}

func (suite *CombineTestSuite) TestShapeMismatch() {
	_, err := Combine([]*types.SignalMatrix{matrix([]int8{1, 0}), matrix([]int8{1, 0, 0})})
	suite.True(errors.HasCode(err, errors.ErrCodeSignalShapeMismatch))

	_, err = Combine(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeSignalShapeMismatch))
}
