package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// windowSeries returns the bars of series inside [start, end]. The series is
// returned as is when no bound is set; otherwise the columns are resliced,
// not copied.
func windowSeries(series *types.PriceSeries, start, end optional.Option[time.Time]) (*types.PriceSeries, error) {
	if series == nil || series.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "series has no bars")
	}

	if start.IsNone() && end.IsNone() {
		return series, nil
	}

	from, to := 0, series.Len()

	if start.IsSome() {
		for from < to && series.Time[from].Before(start.Unwrap()) {
			from++
		}
	}

	if end.IsSome() {
		for to > from && series.Time[to-1].After(end.Unwrap()) {
			to--
		}
	}

	if from == to {
		return nil, errors.Newf(errors.ErrCodeEmptySeries, "no bars between %s and %s",
			formatBound(start), formatBound(end))
	}

	windowed := &types.PriceSeries{
		Time:   series.Time[from:to],
		Open:   series.Open[from:to],
		High:   series.High[from:to],
		Low:    series.Low[from:to],
		Close:  series.Close[from:to],
		Volume: series.Volume[from:to],
		Extra:  make(map[string][]float64, len(series.Extra)),
	}

	for name, column := range series.Extra {
		windowed.Extra[name] = column[from:to]
	}

	return windowed, nil
}

func formatBound(bound optional.Option[time.Time]) string {
	if bound.IsNone() {
		return "all"
	}

	return bound.Unwrap().Format(time.RFC3339)
}
