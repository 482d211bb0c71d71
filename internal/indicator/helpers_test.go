package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-vector/internal/types"
)

// wave returns a deterministic oscillating series that produces crossovers
// for most period choices.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 100 + 5*math.Sin(x/4) + 2*math.Sin(x/1.7) + 0.05*x
	}

	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func maParams(variant int, maType string, period int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindMA, map[string]types.ParamValue{
		"variant": types.IntParam(variant),
		"ma_type": types.EnumParam(maType),
		"period":  types.IntParam(period),
	})
}

func maDoubleParams(variant int, maType string, short, long int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindMA, map[string]types.ParamValue{
		"variant":      types.IntParam(variant),
		"ma_type":      types.EnumParam(maType),
		"short_period": types.IntParam(short),
		"long_period":  types.IntParam(long),
	})
}

func maHoldParams(variant int, maType string, period, m int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindMA, map[string]types.ParamValue{
		"variant": types.IntParam(variant),
		"ma_type": types.EnumParam(maType),
		"period":  types.IntParam(period),
		"m":       types.IntParam(m),
	})
}

func bollParams(variant, length int, mult float64) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindBOLL, map[string]types.ParamValue{
		"variant":        types.IntParam(variant),
		"ma_length":      types.IntParam(length),
		"std_multiplier": types.FloatParam(mult),
	})
}

func ndayParams(n int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindNDAY, map[string]types.ParamValue{"n": types.IntParam(n)})
}

func valueParams(variant, n int, m float64) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindVALUE, map[string]types.ParamValue{
		"variant":  types.IntParam(variant),
		"n_length": types.IntParam(n),
		"m_value":  types.FloatParam(m),
	})
}

func valueRangeParams(variant int, m1, m2 float64) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindVALUE, map[string]types.ParamValue{
		"variant":  types.IntParam(variant),
		"m1_value": types.FloatParam(m1),
		"m2_value": types.FloatParam(m2),
	})
}

func hlParams(variant, n, m int) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindHL, map[string]types.ParamValue{
		"variant":  types.IntParam(variant),
		"n_length": types.IntParam(n),
		"m_length": types.IntParam(m),
	})
}

func percParams(variant, window int, q float64) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindPERC, map[string]types.ParamValue{
		"variant":    types.IntParam(variant),
		"window":     types.IntParam(window),
		"percentile": types.FloatParam(q),
	})
}

func percBandParams(variant, window int, m1, m2 float64) types.ParamSet {
	return types.NewParamSet(types.IndicatorKindPERC, map[string]types.ParamValue{
		"variant":       types.IntParam(variant),
		"window":        types.IntParam(window),
		"m1_percentile": types.FloatParam(m1),
		"m2_percentile": types.FloatParam(m2),
	})
}
