package indicator

import (
	"math"
	"sort"
)

// Rolling helpers shared by the kernels. Every helper returns a new slice of
// the same length as its input and marks undefined bars with NaN.

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// windowStats scans values[i-period+1 : i+1]. It reports false when the
// window is not full or holds a non-finite value.
func windowStats(values []float64, i, period int) (lo, hi float64, ok bool) {
	if i < period-1 {
		return 0, 0, false
	}

	lo, hi = math.Inf(1), math.Inf(-1)

	for _, v := range values[i-period+1 : i+1] {
		if !finite(v) {
			return 0, 0, false
		}

		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return lo, hi, true
}

// rollingSMA is the mean of the last period values. A window that is not full
// or contains a non-finite value is NaN. A constant window returns its value
// exactly.
func rollingSMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		lo, hi, ok := windowStats(values, i, period)
		if !ok {
			out[i] = math.NaN()

			continue
		}

		if lo == hi {
			out[i] = lo

			continue
		}

		sum := 0.0
		for _, v := range values[i-period+1 : i+1] {
			sum += v
		}

		out[i] = sum / float64(period)
	}

	return out
}

// rollingEMA uses span=period without bias adjustment, seeded with the first
// finite value. Non-finite inputs carry the previous average forward.
func rollingEMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / (float64(period) + 1.0)
	prev := math.NaN()

	for i, v := range values {
		switch {
		case !finite(v):
			out[i] = prev
		case math.IsNaN(prev), v == prev:
			prev = v
			out[i] = v
		default:
			prev = alpha*v + (1-alpha)*prev
			out[i] = prev
		}
	}

	return out
}

// rollingWMA weights the last period values 1..period, oldest first.
func rollingWMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	denom := float64(period*(period+1)) / 2.0

	for i := range values {
		lo, hi, ok := windowStats(values, i, period)
		if !ok || denom == 0 {
			out[i] = math.NaN()

			continue
		}

		if lo == hi {
			out[i] = lo

			continue
		}

		acc := 0.0
		for k, v := range values[i-period+1 : i+1] {
			acc += float64(k+1) * v
		}

		out[i] = acc / denom
	}

	return out
}

// rollingMeanStd returns the mean and population standard deviation of the
// finite values among the last window bars, with a minimum of one value.
// A constant window has a std of exactly zero.
func rollingMeanStd(values []float64, window int) ([]float64, []float64) {
	mean := make([]float64, len(values))
	std := make([]float64, len(values))

	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}

		sum := 0.0
		count := 0
		lo, hi := math.Inf(1), math.Inf(-1)

		for _, v := range values[start : i+1] {
			if finite(v) {
				sum += v
				count++
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}

		if count == 0 {
			mean[i] = math.NaN()
			std[i] = math.NaN()

			continue
		}

		if lo == hi {
			mean[i] = lo
			std[i] = 0

			continue
		}

		m := sum / float64(count)
		sq := 0.0

		for _, v := range values[start : i+1] {
			if finite(v) {
				d := v - m
				sq += d * d
			}
		}

		mean[i] = m
		std[i] = math.Sqrt(sq / float64(count))
	}

	return mean, std
}

// extremeTolerance is how close a value must be to its window high or low to
// count as sitting on it.
const extremeTolerance = 1e-10

// rollingExtremes flags the bars whose value equals the high (atHigh) or the
// low (atLow) of the last period values. Bars without a full finite window
// are never flagged.
func rollingExtremes(values []float64, period int) (atHigh, atLow []bool) {
	atHigh = make([]bool, len(values))
	atLow = make([]bool, len(values))

	for i, v := range values {
		lo, hi, ok := windowStats(values, i, period)
		if !ok {
			continue
		}

		atHigh[i] = math.Abs(v-hi) <= extremeTolerance
		atLow[i] = math.Abs(v-lo) <= extremeTolerance
	}

	return atHigh, atLow
}

// rollingPercentile is the q-th percentile (0-100) of the last window values
// with linear interpolation between the closest ranks. A window that is not
// full or holds a non-finite value is NaN.
func rollingPercentile(values []float64, window int, q float64) []float64 {
	out := make([]float64, len(values))
	sorted := make([]float64, window)

	for i := range values {
		lo, hi, ok := windowStats(values, i, window)
		if !ok {
			out[i] = math.NaN()

			continue
		}

		if lo == hi {
			out[i] = lo

			continue
		}

		copy(sorted, values[i-window+1:i+1])
		sort.Float64s(sorted)

		rank := q / 100 * float64(window-1)
		below := int(math.Floor(rank))
		above := int(math.Ceil(rank))
		out[i] = sorted[below] + (sorted[above]-sorted[below])*(rank-float64(below))
	}

	return out
}
