package indicator

import (
	"strings"

	"github.com/rxtech-lab/argo-vector/internal/types"
)

// MA variants:
//
//	1-4   predictor crosses the MA (1 up/long, 2 up/short, 3 down/long, 4 down/short)
//	5-8   short MA crosses long MA (same order)
//	9-12  predictor above (9 long, 10 short) or below (11 long, 12 short) the MA for m bars
const maVariants = 12

const (
	MATypeSMA = "SMA"
	MATypeEMA = "EMA"
	MATypeWMA = "WMA"
)

// AllMATypes lists the supported moving average types.
var AllMATypes = []string{MATypeSMA, MATypeEMA, MATypeWMA}

// MA is the moving average kernel.
type MA struct{}

// NewMA creates the moving average kernel.
func NewMA() Kernel {
	return &MA{}
}

func (m *MA) Kind() types.IndicatorKind {
	return types.IndicatorKindMA
}

func (m *MA) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "variant", Type: types.ParamTypeInt},
		{Name: "ma_type", Type: types.ParamTypeEnum, Enum: AllMATypes},
		{Name: "period", Type: types.ParamTypeInt},
		{Name: "short_period", Type: types.ParamTypeInt},
		{Name: "long_period", Type: types.ParamTypeInt},
		{Name: "m", Type: types.ParamTypeInt},
	}
}

type maConfig struct {
	variant     int
	maType      string
	period      int
	shortPeriod int
	longPeriod  int
	m           int
}

func (c maConfig) double() bool {
	return c.variant >= 5 && c.variant <= 8
}

// sign is the signal emitted when the rule fires.
func (c maConfig) sign() int8 {
	if c.variant%2 == 1 {
		return types.SignalLong
	}

	return types.SignalShort
}

func decodeMA(params types.ParamSet) (maConfig, error) {
	var cfg maConfig

	variant, err := variantOf(params, maVariants)
	if err != nil {
		return cfg, err
	}

	cfg.variant = variant

	maType, err := params.Enum("ma_type")
	if err != nil {
		return cfg, err
	}

	cfg.maType = strings.ToUpper(maType)
	if cfg.maType != MATypeSMA && cfg.maType != MATypeEMA && cfg.maType != MATypeWMA {
		return cfg, invalidParam(params, "unsupported ma_type %s", maType)
	}

	if cfg.double() {
		if cfg.shortPeriod, err = positiveInt(params, "short_period"); err != nil {
			return cfg, err
		}

		if cfg.longPeriod, err = positiveInt(params, "long_period"); err != nil {
			return cfg, err
		}

		if cfg.shortPeriod >= cfg.longPeriod {
			return cfg, invalidParam(params, "short_period %d must be less than long_period %d", cfg.shortPeriod, cfg.longPeriod)
		}

		return cfg, nil
	}

	if cfg.period, err = positiveInt(params, "period"); err != nil {
		return cfg, err
	}

	if variant >= 9 {
		if cfg.m, err = positiveInt(params, "m"); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (m *MA) Validate(params types.ParamSet) error {
	_, err := decodeMA(params)

	return err
}

type maKey struct {
	maType string
	period int
}

func movingAverage(values []float64, key maKey) []float64 {
	switch key.maType {
	case MATypeEMA:
		return rollingEMA(values, key.period)
	case MATypeWMA:
		return rollingWMA(values, key.period)
	default:
		return rollingSMA(values, key.period)
	}
}

// Compute evaluates every column in one pass over time. Each distinct
// (ma_type, period) series is computed once for the whole batch.
func (m *MA) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	configs := make([]maConfig, len(batch))
	series := map[maKey][]float64{}

	for j, params := range batch {
		cfg, err := decodeMA(params)
		if err != nil {
			return nil, err
		}

		configs[j] = cfg

		keys := []maKey{{cfg.maType, cfg.period}}
		if cfg.double() {
			keys = []maKey{{cfg.maType, cfg.shortPeriod}, {cfg.maType, cfg.longPeriod}}
		}

		for _, key := range keys {
			if _, ok := series[key]; !ok {
				series[key] = movingAverage(predictor, key)
			}
		}
	}

	// fast and slow line of every column; for single-MA variants the fast
	// line is the predictor itself
	fast := make([][]float64, len(batch))
	slow := make([][]float64, len(batch))

	for j, cfg := range configs {
		if cfg.double() {
			fast[j] = series[maKey{cfg.maType, cfg.shortPeriod}]
			slow[j] = series[maKey{cfg.maType, cfg.longPeriod}]
		} else {
			fast[j] = predictor
			slow[j] = series[maKey{cfg.maType, cfg.period}]
		}
	}

	rows := len(predictor)
	matrix := types.NewSignalMatrix(rows, len(batch))
	runs := make([]int, len(batch))

	for t := 0; t < rows; t++ {
		for j, cfg := range configs {
			cur, curMA := fast[j][t], slow[j][t]

			if cfg.variant >= 9 {
				// consecutive bars strictly above (9, 10) or below (11, 12)
				hold := finite(cur) && finite(curMA) && ((cfg.variant <= 10 && cur > curMA) || (cfg.variant >= 11 && cur < curMA))
				if !hold {
					runs[j] = 0

					continue
				}

				runs[j]++
				if runs[j] >= cfg.m {
					matrix.Set(t, j, cfg.sign())
				}

				continue
			}

			if t == 0 {
				continue
			}

			prev, prevMA := fast[j][t-1], slow[j][t-1]
			if !finite(prev) || !finite(cur) || !finite(prevMA) || !finite(curMA) {
				continue
			}

			var fired bool

			// 1, 2, 5, 6 cross up; 3, 4, 7, 8 cross down
			switch (cfg.variant - 1) % 4 {
			case 0, 1:
				fired = prev <= prevMA && cur > curMA
			default:
				fired = prev >= prevMA && cur < curMA
			}

			if fired {
				matrix.Set(t, j, cfg.sign())
			}
		}
	}

	return matrix, nil
}
