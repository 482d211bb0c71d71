package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// PERC variants:
//
//	1-2  predictor crosses above its rolling percentile (1 long, 2 short)
//	3-4  predictor crosses below its rolling percentile (3 long, 4 short)
//	5-6  predictor within [m1_percentile, m2_percentile] (5 long, 6 short)
//
// A cross compares the previous bar's value against the current bar's
// percentile.
const percVariants = 6

// Percentile is the rolling percentile kernel.
type Percentile struct{}

// NewPercentile creates the rolling percentile kernel.
func NewPercentile() Kernel {
	return &Percentile{}
}

func (p *Percentile) Kind() types.IndicatorKind {
	return types.IndicatorKindPERC
}

func (p *Percentile) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "variant", Type: types.ParamTypeInt},
		{Name: "window", Type: types.ParamTypeInt},
		{Name: "percentile", Type: types.ParamTypeFloat},
		{Name: "m1_percentile", Type: types.ParamTypeFloat},
		{Name: "m2_percentile", Type: types.ParamTypeFloat},
	}
}

type percConfig struct {
	variant int
	window  int
	q       float64
	m1      float64
	m2      float64
}

func (c percConfig) sign() int8 {
	if c.variant%2 == 1 {
		return types.SignalLong
	}

	return types.SignalShort
}

type percKey struct {
	window int
	q      float64
}

func percentileParam(params types.ParamSet, name string) (float64, error) {
	q, err := params.Float(name)
	if err != nil {
		return 0, err
	}

	if !finite(q) || q < 0 || q > 100 {
		return 0, invalidParam(params, "%s must be between 0 and 100, got %v", name, q)
	}

	return q, nil
}

func decodePercentile(params types.ParamSet) (percConfig, error) {
	var cfg percConfig

	variant, err := variantOf(params, percVariants)
	if err != nil {
		return cfg, err
	}

	cfg.variant = variant

	if cfg.window, err = positiveInt(params, "window"); err != nil {
		return cfg, err
	}

	if variant >= 5 {
		if cfg.m1, err = percentileParam(params, "m1_percentile"); err != nil {
			return cfg, err
		}

		if cfg.m2, err = percentileParam(params, "m2_percentile"); err != nil {
			return cfg, err
		}

		return cfg, nil
	}

	if cfg.q, err = percentileParam(params, "percentile"); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (p *Percentile) Validate(params types.ParamSet) error {
	_, err := decodePercentile(params)

	return err
}

func (p *Percentile) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	configs := make([]percConfig, len(batch))
	levels := map[percKey][]float64{}

	level := func(window int, q float64) []float64 {
		key := percKey{window: window, q: q}
		if _, ok := levels[key]; !ok {
			levels[key] = rollingPercentile(predictor, window, q)
		}

		return levels[key]
	}

	for j, params := range batch {
		cfg, err := decodePercentile(params)
		if err != nil {
			return nil, err
		}

		configs[j] = cfg

		if cfg.variant >= 5 {
			level(cfg.window, cfg.m1)
			level(cfg.window, cfg.m2)
		} else {
			level(cfg.window, cfg.q)
		}
	}

	rows := len(predictor)
	matrix := types.NewSignalMatrix(rows, len(batch))

	for t := 0; t < rows; t++ {
		cur := predictor[t]
		if !finite(cur) {
			continue
		}

		for j, cfg := range configs {
			if cfg.variant >= 5 {
				// an empty or inverted band never fires
				if cfg.m1 >= cfg.m2 {
					continue
				}

				lower := levels[percKey{window: cfg.window, q: cfg.m1}][t]
				upper := levels[percKey{window: cfg.window, q: cfg.m2}][t]

				if finite(lower) && finite(upper) && cur >= lower && cur <= upper {
					matrix.Set(t, j, cfg.sign())
				}

				continue
			}

			if t == 0 {
				continue
			}

			prev := predictor[t-1]
			mark := levels[percKey{window: cfg.window, q: cfg.q}][t]

			if !finite(prev) || !finite(mark) {
				continue
			}

			crossed := prev <= mark && cur > mark
			if cfg.variant >= 3 {
				crossed = prev >= mark && cur < mark
			}

			if crossed {
				matrix.Set(t, j, cfg.sign())
			}
		}
	}

	return matrix, nil
}
