package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// VALUE variants:
//
//	1-2  predictor above m_value for n_length bars (1 long, 2 short)
//	3-4  predictor below m_value for n_length bars (3 long, 4 short)
//	5-6  predictor within [m1_value, m2_value] (5 long, 6 short)
const valueVariants = 6

// Value is the absolute threshold kernel.
type Value struct{}

// NewValue creates the threshold kernel.
func NewValue() Kernel {
	return &Value{}
}

func (v *Value) Kind() types.IndicatorKind {
	return types.IndicatorKindVALUE
}

func (v *Value) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "variant", Type: types.ParamTypeInt},
		{Name: "n_length", Type: types.ParamTypeInt},
		{Name: "m_value", Type: types.ParamTypeFloat},
		{Name: "m1_value", Type: types.ParamTypeFloat},
		{Name: "m2_value", Type: types.ParamTypeFloat},
	}
}

type valueConfig struct {
	variant int
	nLength int
	m       float64
	m1      float64
	m2      float64
}

func (c valueConfig) sign() int8 {
	if c.variant%2 == 1 {
		return types.SignalLong
	}

	return types.SignalShort
}

func decodeValue(params types.ParamSet) (valueConfig, error) {
	var cfg valueConfig

	variant, err := variantOf(params, valueVariants)
	if err != nil {
		return cfg, err
	}

	cfg.variant = variant

	if variant >= 5 {
		if cfg.m1, err = params.Float("m1_value"); err != nil {
			return cfg, err
		}

		if cfg.m2, err = params.Float("m2_value"); err != nil {
			return cfg, err
		}

		return cfg, nil
	}

	if cfg.nLength, err = positiveInt(params, "n_length"); err != nil {
		return cfg, err
	}

	if cfg.m, err = params.Float("m_value"); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (v *Value) Validate(params types.ParamSet) error {
	_, err := decodeValue(params)

	return err
}

func (v *Value) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	configs := make([]valueConfig, len(batch))

	for j, params := range batch {
		cfg, err := decodeValue(params)
		if err != nil {
			return nil, err
		}

		configs[j] = cfg
	}

	rows := len(predictor)
	matrix := types.NewSignalMatrix(rows, len(batch))
	runs := make([]int, len(batch))

	for t := 0; t < rows; t++ {
		cur := predictor[t]
		ok := finite(cur)

		for j, cfg := range configs {
			switch {
			case cfg.variant >= 5:
				// an empty or inverted range never fires
				if ok && cfg.m1 < cfg.m2 && cur >= cfg.m1 && cur <= cfg.m2 {
					matrix.Set(t, j, cfg.sign())
				}
			default:
				hold := ok && ((cfg.variant <= 2 && cur > cfg.m) || (cfg.variant >= 3 && cur < cfg.m))
				if !hold {
					runs[j] = 0

					continue
				}

				runs[j]++
				if runs[j] >= cfg.nLength {
					matrix.Set(t, j, cfg.sign())
				}
			}
		}
	}

	return matrix, nil
}
