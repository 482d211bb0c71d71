package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// MarketData is one bar of the standardized time series.
type MarketData struct {
	Time   time.Time `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// PriceSeries is the columnar, read-only view of a time series shared by all
// workers of a run. Extra holds precomputed factor or return columns.
type PriceSeries struct {
	Time   []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
	Extra  map[string][]float64
}

// NewPriceSeries builds a columnar series from bars.
func NewPriceSeries(bars []MarketData) *PriceSeries {
	s := &PriceSeries{
		Time:   make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
		Extra:  map[string][]float64{},
	}

	for i, bar := range bars {
		s.Time[i] = bar.Time
		s.Open[i] = bar.Open
		s.High[i] = bar.High
		s.Low[i] = bar.Low
		s.Close[i] = bar.Close
		s.Volume[i] = bar.Volume
	}

	return s
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	return len(s.Close)
}

// Bar returns bar i as MarketData.
func (s *PriceSeries) Bar(i int) MarketData {
	return MarketData{
		Time:   s.Time[i],
		Open:   s.Open[i],
		High:   s.High[i],
		Low:    s.Low[i],
		Close:  s.Close[i],
		Volume: s.Volume[i],
	}
}

// Column returns a named column. OHLCV names are resolved first, then Extra.
func (s *PriceSeries) Column(name string) ([]float64, error) {
	switch name {
	case ColumnOpen:
		return s.Open, nil
	case ColumnHigh:
		return s.High, nil
	case ColumnLow:
		return s.Low, nil
	case ColumnClose, "":
		return s.Close, nil
	case ColumnVolume:
		return s.Volume, nil
	}

	if col, ok := s.Extra[name]; ok {
		return col, nil
	}

	return nil, errors.Newf(errors.ErrCodeMissingColumn, "column %s not found in series", name)
}

// AddColumn attaches an extra column. It must have the same length as the series.
func (s *PriceSeries) AddColumn(name string, values []float64) error {
	if len(values) != s.Len() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "column %s has %d rows, series has %d", name, len(values), s.Len())
	}

	if s.Extra == nil {
		s.Extra = map[string][]float64{}
	}

	s.Extra[name] = values

	return nil
}

// Price returns the execution price at bar i for the given rule.
func (s *PriceSeries) Price(i int, rule TradePriceRule) float64 {
	if rule == TradePriceClose {
		return s.Close[i]
	}

	return s.Open[i]
}

// ValidPrice reports whether p can be used as an execution price.
func ValidPrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}
