package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-vector/internal/indicator"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/shopspring/decimal"
)

// ExpandStrategies turns strategy templates into concrete combinations.
// Each slot expands to the cartesian product of its parameter values, then
// each strategy expands to the product of its slots, entries first. The
// first slot varies slowest. IDs are "name#k" with k counting from 1 within
// each strategy.
func ExpandStrategies(registry indicator.IndicatorRegistry, strategies []StrategyConfig) ([]types.StrategySpec, error) {
	var specs []types.StrategySpec

	for _, strategy := range strategies {
		slots := make([][]types.ParamSet, 0, len(strategy.Entries)+len(strategy.Exits))

		for i, slot := range append(append([]IndicatorConfig{}, strategy.Entries...), strategy.Exits...) {
			sets, err := ExpandIndicator(registry, slot)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "strategy %s slot %d", strategy.Name, i)
			}

			slots = append(slots, sets)
		}

		k := 0

		product(slots, func(picked []types.ParamSet) {
			k++

			entries := make([]types.ParamSet, len(strategy.Entries))
			copy(entries, picked[:len(strategy.Entries)])

			exits := make([]types.ParamSet, len(strategy.Exits))
			copy(exits, picked[len(strategy.Entries):])

			specs = append(specs, types.StrategySpec{
				ID:      fmt.Sprintf("%s#%d", strategy.Name, k),
				Name:    strategy.Name,
				Entries: entries,
				Exits:   exits,
			})
		})
	}

	return specs, nil
}

// ExpandIndicator expands one indicator slot into its ParamSets. Values are
// typed by the kernel schema of the slot's kind.
func ExpandIndicator(registry indicator.IndicatorRegistry, cfg IndicatorConfig) ([]types.ParamSet, error) {
	kind, ok := types.ParseIndicatorKind(cfg.Indicator)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "unknown indicator %q", cfg.Indicator)
	}

	kernel, err := registry.GetKernel(kind)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "unknown indicator", err)
	}

	schema := map[string]indicator.ParamSpec{}
	for _, spec := range kernel.Schema() {
		schema[spec.Name] = spec
	}

	names := make([]string, 0, len(cfg.Params))
	for name := range cfg.Params {
		names = append(names, name)
	}

	sort.Strings(names)

	axes := make([][]types.ParamValue, len(names))

	for i, name := range names {
		spec, ok := schema[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%s does not take parameter %s", kind, name)
		}

		values, err := ParseParamValues(spec, cfg.Params[name])
		if err != nil {
			return nil, err
		}

		axes[i] = values
	}

	var sets []types.ParamSet

	product(axes, func(picked []types.ParamValue) {
		values := make(map[string]types.ParamValue, len(names))
		for i, name := range names {
			values[name] = picked[i]
		}

		params := types.NewParamSet(kind, values)
		if keep(params) {
			sets = append(sets, params)
		}
	})

	if len(sets) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidRange, "%s parameters expand to no valid combination", kind)
	}

	return sets, nil
}

// ParseParamValues parses a comma separated list whose items are single
// values or inclusive "start:end[:step]" ranges. Duplicates are dropped.
func ParseParamValues(spec indicator.ParamSpec, raw string) ([]types.ParamValue, error) {
	var values []types.ParamValue

	seen := map[string]bool{}

	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parsed, err := parseItem(spec, item)
		if err != nil {
			return nil, err
		}

		for _, v := range parsed {
			if seen[v.String()] {
				continue
			}

			seen[v.String()] = true
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return nil, errors.Newf(errors.ErrCodeMissingParameter, "parameter %s has no values", spec.Name)
	}

	return values, nil
}

func parseItem(spec indicator.ParamSpec, item string) ([]types.ParamValue, error) {
	switch spec.Type {
	case types.ParamTypeInt:
		return parseIntItem(spec.Name, item)
	case types.ParamTypeFloat:
		return parseFloatItem(spec.Name, item)
	default:
		for _, allowed := range spec.Enum {
			if strings.EqualFold(allowed, item) {
				return []types.ParamValue{types.EnumParam(allowed)}, nil
			}
		}

		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s: %q is not one of %s", spec.Name, item, strings.Join(spec.Enum, ","))
	}
}

func parseIntItem(name, item string) ([]types.ParamValue, error) {
	parts := strings.Split(item, ":")

	bounds := make([]int, len(parts))

	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidType, err, "parameter %s: %q is not an int", name, item)
		}

		bounds[i] = v
	}

	switch len(bounds) {
	case 1:
		return []types.ParamValue{types.IntParam(bounds[0])}, nil
	case 2, 3:
		start, end, step := bounds[0], bounds[1], 1
		if len(bounds) == 3 {
			step = bounds[2]
		}

		if step <= 0 || end < start {
			return nil, errors.Newf(errors.ErrCodeInvalidRange, "parameter %s: invalid range %q", name, item)
		}

		values := make([]types.ParamValue, 0, (end-start)/step+1)
		for v := start; v <= end; v += step {
			values = append(values, types.IntParam(v))
		}

		return values, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidRange, "parameter %s: invalid range %q", name, item)
	}
}

// parseFloatItem steps float ranges in decimal so 0.1:0.3:0.1 yields exactly
// three values.
func parseFloatItem(name, item string) ([]types.ParamValue, error) {
	parts := strings.Split(item, ":")

	bounds := make([]decimal.Decimal, len(parts))

	for i, part := range parts {
		v, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidType, err, "parameter %s: %q is not a number", name, item)
		}

		bounds[i] = v
	}

	switch len(bounds) {
	case 1:
		return []types.ParamValue{types.FloatParam(bounds[0].InexactFloat64())}, nil
	case 2, 3:
		start, end, step := bounds[0], bounds[1], decimal.NewFromInt(1)
		if len(bounds) == 3 {
			step = bounds[2]
		}

		if !step.IsPositive() || end.LessThan(start) {
			return nil, errors.Newf(errors.ErrCodeInvalidRange, "parameter %s: invalid range %q", name, item)
		}

		var values []types.ParamValue
		for v := start; v.LessThanOrEqual(end); v = v.Add(step) {
			values = append(values, types.FloatParam(v.InexactFloat64()))
		}

		return values, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidRange, "parameter %s: invalid range %q", name, item)
	}
}

// keep drops combinations that can never fire or validate: crossovers need
// short < long, breakouts need n_length <= m_length and value or percentile
// bands need m1 < m2.
func keep(params types.ParamSet) bool {
	variant, err := params.Int("variant")
	if err != nil {
		return true
	}

	switch params.Kind() {
	case types.IndicatorKindMA:
		if variant < 5 || variant > 8 {
			return true
		}

		short, errShort := params.Int("short_period")
		long, errLong := params.Int("long_period")

		return errShort != nil || errLong != nil || short < long
	case types.IndicatorKindVALUE:
		if variant < 5 {
			return true
		}

		m1, err1 := params.Float("m1_value")
		m2, err2 := params.Float("m2_value")

		return err1 != nil || err2 != nil || m1 < m2
	case types.IndicatorKindHL:
		n, errN := params.Int("n_length")
		m, errM := params.Int("m_length")

		return errN != nil || errM != nil || n <= m
	case types.IndicatorKindPERC:
		if variant < 5 {
			return true
		}

		m1, err1 := params.Float("m1_percentile")
		m2, err2 := params.Float("m2_percentile")

		return err1 != nil || err2 != nil || m1 < m2
	default:
		return true
	}
}

// product calls fn with every combination of one element per axis, the last
// axis varying fastest. fn must not retain picked.
func product[T any](axes [][]T, fn func(picked []T)) {
	for _, axis := range axes {
		if len(axis) == 0 {
			return
		}
	}

	picked := make([]T, len(axes))
	index := make([]int, len(axes))

	for {
		for i, axis := range axes {
			picked[i] = axis[index[i]]
		}

		fn(picked)

		i := len(axes) - 1
		for ; i >= 0; i-- {
			index[i]++
			if index[i] < len(axes[i]) {
				break
			}

			index[i] = 0
		}

		if i < 0 {
			return
		}
	}
}
