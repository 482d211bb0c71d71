package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// BOLL variants: 1 upper breakout long, 2 upper breakout short,
// 3 lower breakout long, 4 lower breakout short.
const bollVariants = 4

// BollingerBands is the band breakout kernel. Bands use a rolling mean and
// population standard deviation with a minimum of one observation.
type BollingerBands struct{}

// NewBollingerBands creates the band kernel.
func NewBollingerBands() Kernel {
	return &BollingerBands{}
}

func (b *BollingerBands) Kind() types.IndicatorKind {
	return types.IndicatorKindBOLL
}

func (b *BollingerBands) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "variant", Type: types.ParamTypeInt},
		{Name: "ma_length", Type: types.ParamTypeInt},
		{Name: "std_multiplier", Type: types.ParamTypeFloat},
	}
}

type bollConfig struct {
	variant    int
	maLength   int
	multiplier float64
}

func decodeBoll(params types.ParamSet) (bollConfig, error) {
	var cfg bollConfig

	variant, err := variantOf(params, bollVariants)
	if err != nil {
		return cfg, err
	}

	cfg.variant = variant

	if cfg.maLength, err = positiveInt(params, "ma_length"); err != nil {
		return cfg, err
	}

	if cfg.multiplier, err = params.Float("std_multiplier"); err != nil {
		return cfg, err
	}

	if !finite(cfg.multiplier) || cfg.multiplier < 0 {
		return cfg, invalidParam(params, "std_multiplier must be a non-negative number, got %v", cfg.multiplier)
	}

	return cfg, nil
}

func (b *BollingerBands) Validate(params types.ParamSet) error {
	_, err := decodeBoll(params)

	return err
}

type bands struct {
	mean []float64
	std  []float64
}

func (b *BollingerBands) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	configs := make([]bollConfig, len(batch))
	windows := map[int]bands{}

	for j, params := range batch {
		cfg, err := decodeBoll(params)
		if err != nil {
			return nil, err
		}

		configs[j] = cfg

		if _, ok := windows[cfg.maLength]; !ok {
			mean, std := rollingMeanStd(predictor, cfg.maLength)
			windows[cfg.maLength] = bands{mean: mean, std: std}
		}
	}

	rows := len(predictor)
	matrix := types.NewSignalMatrix(rows, len(batch))

	for t := 1; t < rows; t++ {
		prev, cur := predictor[t-1], predictor[t]
		if !finite(prev) || !finite(cur) {
			continue
		}

		for j, cfg := range configs {
			if t < cfg.maLength-1 {
				continue
			}

			w := windows[cfg.maLength]
			mean, std := w.mean[t], w.std[t]

			if !finite(mean) || !finite(std) {
				continue
			}

			upper := mean + cfg.multiplier*std
			lower := mean - cfg.multiplier*std

			switch cfg.variant {
			case 1:
				if prev <= upper && cur > upper {
					matrix.Set(t, j, types.SignalLong)
				}
			case 2:
				if prev <= upper && cur > upper {
					matrix.Set(t, j, types.SignalShort)
				}
			case 3:
				if prev >= lower && cur < lower {
					matrix.Set(t, j, types.SignalLong)
				}
			case 4:
				if prev >= lower && cur < lower {
					matrix.Set(t, j, types.SignalShort)
				}
			}
		}
	}

	return matrix, nil
}
