package indicator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// HL variants: the predictor sits on its m_length-bar high for n_length
// consecutive bars (1 long, 2 short) or on its m_length-bar low for n_length
// consecutive bars (3 long, 4 short).
const hlVariants = 4

// HighLow is the consecutive breakout kernel.
type HighLow struct{}

// NewHighLow creates the breakout kernel.
func NewHighLow() Kernel {
	return &HighLow{}
}

func (h *HighLow) Kind() types.IndicatorKind {
	return types.IndicatorKindHL
}

func (h *HighLow) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "variant", Type: types.ParamTypeInt},
		{Name: "n_length", Type: types.ParamTypeInt},
		{Name: "m_length", Type: types.ParamTypeInt},
	}
}

type hlConfig struct {
	variant int
	nLength int
	mLength int
}

func (c hlConfig) sign() int8 {
	if c.variant%2 == 1 {
		return types.SignalLong
	}

	return types.SignalShort
}

// warmup is the first bar allowed to fire.
func (c hlConfig) warmup() int {
	return c.mLength + c.nLength - 1
}

func decodeHighLow(params types.ParamSet) (hlConfig, error) {
	var cfg hlConfig

	variant, err := variantOf(params, hlVariants)
	if err != nil {
		return cfg, err
	}

	cfg.variant = variant

	if cfg.nLength, err = positiveInt(params, "n_length"); err != nil {
		return cfg, err
	}

	if cfg.mLength, err = positiveInt(params, "m_length"); err != nil {
		return cfg, err
	}

	if cfg.nLength > cfg.mLength {
		return cfg, invalidParam(params, "n_length %d must not exceed m_length %d", cfg.nLength, cfg.mLength)
	}

	return cfg, nil
}

func (h *HighLow) Validate(params types.ParamSet) error {
	_, err := decodeHighLow(params)

	return err
}

type extremes struct {
	atHigh []bool
	atLow  []bool
}

func (h *HighLow) Compute(predictor []float64, batch []types.ParamSet) (*types.SignalMatrix, error) {
	configs := make([]hlConfig, len(batch))
	windows := map[int]extremes{}

	for j, params := range batch {
		cfg, err := decodeHighLow(params)
		if err != nil {
			return nil, err
		}

		configs[j] = cfg

		if _, ok := windows[cfg.mLength]; !ok {
			atHigh, atLow := rollingExtremes(predictor, cfg.mLength)
			windows[cfg.mLength] = extremes{atHigh: atHigh, atLow: atLow}
		}
	}

	rows := len(predictor)
	matrix := types.NewSignalMatrix(rows, len(batch))
	runs := make([]int, len(batch))

	for t := 0; t < rows; t++ {
		for j, cfg := range configs {
			w := windows[cfg.mLength]

			hold := w.atHigh[t]
			if cfg.variant >= 3 {
				hold = w.atLow[t]
			}

			if !hold {
				runs[j] = 0

				continue
			}

			runs[j]++
			if runs[j] >= cfg.nLength && t >= cfg.warmup() {
				matrix.Set(t, j, cfg.sign())
			}
		}
	}

	return matrix, nil
}
