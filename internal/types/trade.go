package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionState is the per-combination state machine value.
type PositionState int8

const (
	PositionFlat  PositionState = 0
	PositionLong  PositionState = 1
	PositionShort PositionState = -1
)

func (s PositionState) String() string {
	switch s {
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Direction is the side of a realized trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// DirectionOf maps an open position state to its trade direction.
func DirectionOf(s PositionState) Direction {
	if s == PositionShort {
		return DirectionShort
	}

	return DirectionLong
}

// Sign returns +1 for long and -1 for short.
func (d Direction) Sign() float64 {
	if d == DirectionShort {
		return -1
	}

	return 1
}

// TradeRecord is one realized round trip of a combination. PnL values are per
// unit of the traded instrument.
type TradeRecord struct {
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time"`
	EntryIndex int       `yaml:"entry_index" json:"entry_index"`
	ExitIndex  int       `yaml:"exit_index" json:"exit_index"`
	Direction  Direction `yaml:"direction" json:"direction"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price"`
	// HoldingPeriod is the number of bars between entry and exit.
	HoldingPeriod int `yaml:"holding_period" json:"holding_period"`
	// GrossReturn and NetReturn are simple or log returns, per the run's ReturnMode.
	GrossReturn float64         `yaml:"gross_return" json:"gross_return"`
	NetReturn   float64         `yaml:"net_return" json:"net_return"`
	GrossPnL    decimal.Decimal `yaml:"gross_pnl" json:"gross_pnl"`
	NetPnL      decimal.Decimal `yaml:"net_pnl" json:"net_pnl"`
	Fee         decimal.Decimal `yaml:"fee" json:"fee"`
	// ForcedClose marks a trade closed by the end of the series rather than a signal.
	ForcedClose bool `yaml:"forced_close" json:"forced_close"`
}

// OpenPosition is a position still held at the last bar under the leave_open policy.
type OpenPosition struct {
	Direction  Direction `yaml:"direction" json:"direction"`
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time"`
	EntryIndex int       `yaml:"entry_index" json:"entry_index"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	// MarkPrice is the last bar's price under the run's price rule.
	MarkPrice float64 `yaml:"mark_price" json:"mark_price"`
	// UnrealizedReturn is the simple gross return at MarkPrice.
	UnrealizedReturn float64 `yaml:"unrealized_return" json:"unrealized_return"`
}

// Trajectory is the optional per-bar path of one combination.
type Trajectory struct {
	Positions []PositionState
	// Equity starts at 1.0 and compounds realized net simple returns.
	Equity []float64
}
