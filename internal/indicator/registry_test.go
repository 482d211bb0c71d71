package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry IndicatorRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewDefaultRegistry()
}

// failingKernel always errors so wrapping can be observed.
type failingKernel struct{}

func (f *failingKernel) Kind() types.IndicatorKind { return types.IndicatorKind("FAIL") }
func (f *failingKernel) Schema() []ParamSpec      { return nil }
func (f *failingKernel) Validate(types.ParamSet) error {
	return errors.New(errors.ErrCodeInvalidParameter, "nope")
}

func (f *failingKernel) Compute([]float64, []types.ParamSet) (*types.SignalMatrix, error) {
	return nil, errors.New(errors.ErrCodeInvalidParameter, "nope")
}

func (suite *RegistryTestSuite) TestListKinds() {
	suite.Equal([]types.IndicatorKind{
		types.IndicatorKindBOLL,
		types.IndicatorKindHL,
		types.IndicatorKindMA,
		types.IndicatorKindNDAY,
		types.IndicatorKindPERC,
		types.IndicatorKindVALUE,
	}, suite.registry.ListKinds())

	suite.Empty(NewIndicatorRegistry().ListKinds())
}

func (suite *RegistryTestSuite) TestRegisterAndGet() {
	err := suite.registry.RegisterKernel(NewMA())
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))

	suite.NoError(suite.registry.RegisterKernel(&failingKernel{}))

	kernel, err := suite.registry.GetKernel("FAIL")
	suite.NoError(err)
	suite.Equal(types.IndicatorKind("FAIL"), kernel.Kind())

	_, err = NewIndicatorRegistry().GetKernel(types.IndicatorKindMA)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestComputeSignalsRejectsMixedBatch() {
	_, err := suite.registry.ComputeSignals(types.IndicatorKindMA, types.SignalRoleEntry, wave(20), []types.ParamSet{
		maParams(1, "SMA", 3),
		bollParams(1, 5, 2),
	})
	suite.True(errors.HasCode(err, errors.ErrCodeMixedIndicatorBatch))
}

func (suite *RegistryTestSuite) TestExitOnlyKindAsEntryIsFlat() {
	matrix, err := suite.registry.ComputeSignals(types.IndicatorKindNDAY, types.SignalRoleEntry, wave(20), []types.ParamSet{ndayParams(2)})
	suite.NoError(err)
	suite.Equal(20, matrix.Rows)
	suite.Equal(0, matrix.NonZero(0))
}

func (suite *RegistryTestSuite) TestComputeSignalsDispatches() {
	predictor := wave(120)

	matrix, err := suite.registry.ComputeSignals(types.IndicatorKindMA, types.SignalRoleEntry, predictor, []types.ParamSet{maParams(1, "SMA", 5)})
	suite.NoError(err)

	direct, err := NewMA().Compute(predictor, []types.ParamSet{maParams(1, "SMA", 5)})
	suite.NoError(err)
	suite.Equal(direct.Data, matrix.Data)
}

func (suite *RegistryTestSuite) TestComputeSignalsWrapsKernelErrors() {
	_, err := suite.registry.ComputeSignals(types.IndicatorKindMA, types.SignalRoleExit, wave(20), []types.ParamSet{maParams(99, "SMA", 3)})
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))

	_, err = suite.registry.ComputeSignals(types.IndicatorKind("NOPE"), types.SignalRoleEntry, wave(20), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestValidateParams() {
	suite.NoError(suite.registry.ValidateParams(maParams(1, "EMA", 10)))
	suite.True(errors.HasCode(suite.registry.ValidateParams(maParams(1, "HMA", 10)), errors.ErrCodeInvalidParameter))

	unknown := types.NewParamSet(types.IndicatorKind("NOPE"), nil)
	suite.True(errors.HasCode(suite.registry.ValidateParams(unknown), errors.ErrCodeStrategyConfigError))
}
