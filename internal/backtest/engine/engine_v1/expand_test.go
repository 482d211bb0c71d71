package engine

import (
	"testing"

	"github.com/rxtech-lab/argo-vector/internal/indicator"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ExpandTestSuite struct {
	suite.Suite
	registry indicator.IndicatorRegistry
}

func TestExpandSuite(t *testing.T) {
	suite.Run(t, new(ExpandTestSuite))
}

func (suite *ExpandTestSuite) SetupTest() {
	suite.registry = indicator.NewDefaultRegistry()
}

func (suite *ExpandTestSuite) TestParseParamValues() {
	intSpec := indicator.ParamSpec{Name: "period", Type: types.ParamTypeInt}
	floatSpec := indicator.ParamSpec{Name: "std_multiplier", Type: types.ParamTypeFloat}
	enumSpec := indicator.ParamSpec{Name: "ma_type", Type: types.ParamTypeEnum, Enum: indicator.AllMATypes}

	tests := []struct {
		name     string
		spec     indicator.ParamSpec
		raw      string
		expected []types.ParamValue
		code     errors.ErrorCode
	}{
		{
			name:     "single int",
			spec:     intSpec,
			raw:      "5",
			expected: []types.ParamValue{types.IntParam(5)},
		},
		{
			name:     "int range with step",
			spec:     intSpec,
			raw:      "5:20:5",
			expected: []types.ParamValue{types.IntParam(5), types.IntParam(10), types.IntParam(15), types.IntParam(20)},
		},
		{
			name:     "int range default step",
			spec:     intSpec,
			raw:      "2:4",
			expected: []types.ParamValue{types.IntParam(2), types.IntParam(3), types.IntParam(4)},
		},
		{
			name:     "range end not on step",
			spec:     intSpec,
			raw:      "1:6:2",
			expected: []types.ParamValue{types.IntParam(1), types.IntParam(3), types.IntParam(5)},
		},
		{
			name:     "list mixing ranges drops duplicates",
			spec:     intSpec,
			raw:      "3, 1:3, 7",
			expected: []types.ParamValue{types.IntParam(3), types.IntParam(1), types.IntParam(2), types.IntParam(7)},
		},
		{
			name:     "float range in decimal steps",
			spec:     floatSpec,
			raw:      "0.1:0.3:0.1",
			expected: []types.ParamValue{types.FloatParam(0.1), types.FloatParam(0.2), types.FloatParam(0.3)},
		},
		{
			name:     "float list",
			spec:     floatSpec,
			raw:      "1.5,2",
			expected: []types.ParamValue{types.FloatParam(1.5), types.FloatParam(2)},
		},
		{
			name:     "enum list is case insensitive",
			spec:     enumSpec,
			raw:      "sma,EMA",
			expected: []types.ParamValue{types.EnumParam("SMA"), types.EnumParam("EMA")},
		},
		{
			name: "unknown enum",
			spec: enumSpec,
			raw:  "HMA",
			code: errors.ErrCodeInvalidParameter,
		},
		{
			name: "not an int",
			spec: intSpec,
			raw:  "2.5",
			code: errors.ErrCodeInvalidType,
		},
		{
			name: "inverted range",
			spec: intSpec,
			raw:  "10:5",
			code: errors.ErrCodeInvalidRange,
		},
		{
			name: "zero step",
			spec: floatSpec,
			raw:  "1:2:0",
			code: errors.ErrCodeInvalidRange,
		},
		{
			name: "too many range parts",
			spec: intSpec,
			raw:  "1:2:3:4",
			code: errors.ErrCodeInvalidRange,
		},
		{
			name: "empty",
			spec: intSpec,
			raw:  " , ",
			code: errors.ErrCodeMissingParameter,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			values, err := ParseParamValues(tc.spec, tc.raw)
			if tc.code != 0 {
				suite.Error(err)
				suite.Equal(tc.code, errors.GetCode(err))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, values)
		})
	}
}

func (suite *ExpandTestSuite) TestExpandIndicatorFiltersCrossovers() {
	sets, err := ExpandIndicator(suite.registry, IndicatorConfig{
		Indicator: "ma",
		Params: map[string]string{
			"variant":      "5",
			"ma_type":      "SMA",
			"short_period": "5:15:5",
			"long_period":  "10,20",
		},
	})
	suite.Require().NoError(err)

	// (5,10) (5,20) (10,20) (15,20); short >= long is dropped
	suite.Len(sets, 4)

	for _, set := range sets {
		suite.Equal(types.IndicatorKindMA, set.Kind())
		suite.NoError(suite.registry.ValidateParams(set))
	}
}

func (suite *ExpandTestSuite) TestExpandIndicatorFiltersValueRanges() {
	sets, err := ExpandIndicator(suite.registry, IndicatorConfig{
		Indicator: "VALUE",
		Params: map[string]string{
			"variant":  "5",
			"m1_value": "1,3",
			"m2_value": "2,3",
		},
	})
	suite.Require().NoError(err)

	// (1,2) (1,3); (3,2) and (3,3) are empty ranges
	suite.Len(sets, 2)
}

func (suite *ExpandTestSuite) TestExpandIndicatorFiltersBreakoutLengths() {
	sets, err := ExpandIndicator(suite.registry, IndicatorConfig{
		Indicator: "HL",
		Params: map[string]string{
			"variant":  "1:4",
			"n_length": "1:3",
			"m_length": "2,3",
		},
	})
	suite.Require().NoError(err)

	// (1,2) (1,3) (2,2) (2,3) (3,3) per variant; n_length > m_length is dropped
	suite.Len(sets, 4*5)

	for _, set := range sets {
		suite.Equal(types.IndicatorKindHL, set.Kind())
		suite.NoError(suite.registry.ValidateParams(set))
	}
}

func (suite *ExpandTestSuite) TestExpandIndicatorFiltersPercentileBands() {
	sets, err := ExpandIndicator(suite.registry, IndicatorConfig{
		Indicator: "PERC",
		Params: map[string]string{
			"variant":       "5,6",
			"window":        "20",
			"m1_percentile": "10:30:10",
			"m2_percentile": "20,80",
		},
	})
	suite.Require().NoError(err)

	// m1 < m2: (10,20) (10,80) (20,80) (30,80) per variant
	suite.Len(sets, 2*4)

	crossings, err := ExpandIndicator(suite.registry, IndicatorConfig{
		Indicator: "PERC",
		Params: map[string]string{
			"variant":    "1:4",
			"window":     "10,20",
			"percentile": "25:75:25",
		},
	})
	suite.Require().NoError(err)
	suite.Len(crossings, 4*2*3)

	for _, set := range append(sets, crossings...) {
		suite.NoError(suite.registry.ValidateParams(set))
	}
}

func (suite *ExpandTestSuite) TestExpandIndicatorErrors() {
	tests := []struct {
		name string
		cfg  IndicatorConfig
		code errors.ErrorCode
	}{
		{
			name: "unknown indicator",
			cfg:  IndicatorConfig{Indicator: "RSI"},
			code: errors.ErrCodeStrategyConfigError,
		},
		{
			name: "unknown parameter",
			cfg:  IndicatorConfig{Indicator: "NDAY", Params: map[string]string{"days": "3"}},
			code: errors.ErrCodeInvalidParameter,
		},
		{
			name: "every combination filtered",
			cfg: IndicatorConfig{Indicator: "MA", Params: map[string]string{
				"variant": "6", "ma_type": "EMA", "short_period": "20", "long_period": "10",
			}},
			code: errors.ErrCodeInvalidRange,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ExpandIndicator(suite.registry, tc.cfg)
			suite.Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *ExpandTestSuite) TestExpandStrategies() {
	strategies := []StrategyConfig{
		{
			Name: "ma",
			Entries: []IndicatorConfig{{Indicator: "MA", Params: map[string]string{
				"variant": "1", "ma_type": "SMA", "period": "5,10",
			}}},
			Exits: []IndicatorConfig{{Indicator: "NDAY", Params: map[string]string{"n": "3:5"}}},
		},
		{
			Name: "boll",
			Entries: []IndicatorConfig{{Indicator: "BOLL", Params: map[string]string{
				"variant": "1", "ma_length": "20", "std_multiplier": "2",
			}}},
			Exits: []IndicatorConfig{{Indicator: "NDAY", Params: map[string]string{"n": "10"}}},
		},
	}

	specs, err := ExpandStrategies(suite.registry, strategies)
	suite.Require().NoError(err)
	suite.Require().Len(specs, 7)

	ids := make([]string, len(specs))
	for i, spec := range specs {
		ids[i] = spec.ID
		suite.NoError(spec.Validate())
	}

	suite.Equal([]string{"ma#1", "ma#2", "ma#3", "ma#4", "ma#5", "ma#6", "boll#1"}, ids)

	// the entry slot varies slowest
	period, err := specs[0].Entries[0].Int("period")
	suite.NoError(err)
	suite.Equal(5, period)

	n, err := specs[0].Exits[0].Int("n")
	suite.NoError(err)
	suite.Equal(3, n)

	n, err = specs[1].Exits[0].Int("n")
	suite.NoError(err)
	suite.Equal(4, n)

	period, err = specs[3].Entries[0].Int("period")
	suite.NoError(err)
	suite.Equal(10, period)

	suite.Equal("1x1:MA|NDAY", specs[0].Signature().Key())
	suite.Equal("1x1:BOLL|NDAY", specs[6].Signature().Key())
}

func (suite *ExpandTestSuite) TestExpandStrategiesIsDeterministic() {
	strategies := []StrategyConfig{{
		Name: "v",
		Entries: []IndicatorConfig{{Indicator: "VALUE", Params: map[string]string{
			"variant": "1:4", "n_length": "1,2", "m_value": "0.5:1.5:0.5",
		}}},
		Exits: []IndicatorConfig{{Indicator: "NDAY", Params: map[string]string{"n": "2"}}},
	}}

	first, err := ExpandStrategies(suite.registry, strategies)
	suite.Require().NoError(err)
	suite.Len(first, 4*2*3)

	second, err := ExpandStrategies(suite.registry, strategies)
	suite.Require().NoError(err)

	for i := range first {
		suite.Equal(first[i].ID, second[i].ID)
		suite.Equal(first[i].Entries[0].Hash(), second[i].Entries[0].Hash())
	}
}

func (suite *ExpandTestSuite) TestExpandStrategiesWrapsSlotErrors() {
	_, err := ExpandStrategies(suite.registry, []StrategyConfig{{
		Name:    "bad",
		Entries: []IndicatorConfig{{Indicator: "MA", Params: map[string]string{"period": "x"}}},
		Exits:   []IndicatorConfig{{Indicator: "NDAY", Params: map[string]string{"n": "2"}}},
	}})

	suite.Error(err)
	suite.Equal(errors.ErrCodeStrategyConfigError, errors.GetCode(err))
	suite.Contains(err.Error(), "strategy bad slot 0")
}
