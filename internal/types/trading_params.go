package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
)

// TradePriceRule selects which bar price an order executes at.
type TradePriceRule string

const (
	TradePriceOpen  TradePriceRule = "open"
	TradePriceClose TradePriceRule = "close"
)

// ReturnMode selects how trade returns are expressed.
type ReturnMode string

const (
	ReturnModeSimple ReturnMode = "simple"
	ReturnModeLog    ReturnMode = "log"
)

// OpenPositionPolicy decides what happens to a position still open at the last bar.
type OpenPositionPolicy string

const (
	// OpenPositionForceClose closes the position at the last bar's price and charges costs.
	OpenPositionForceClose OpenPositionPolicy = "force_close"
	// OpenPositionLeaveOpen reports the position without a TradeRecord.
	OpenPositionLeaveOpen OpenPositionPolicy = "leave_open"
)

// TradingParams are the execution settings shared by every combination of a run.
type TradingParams struct {
	// TransactionCost is charged per side as a fraction of the entry price.
	TransactionCost float64 `yaml:"transaction_cost" json:"transaction_cost" validate:"gte=0,lt=1" jsonschema:"title=Transaction Cost,description=Per side cost as a fraction of the entry price,minimum=0"`
	// Slippage is charged per side as a fraction of the entry price.
	Slippage float64 `yaml:"slippage" json:"slippage" validate:"gte=0,lt=1" jsonschema:"title=Slippage,description=Per side slippage as a fraction of the entry price,minimum=0"`
	// TradeDelay is the number of bars between a signal and its execution.
	TradeDelay int `yaml:"trade_delay" json:"trade_delay" validate:"gte=0" jsonschema:"title=Trade Delay,description=Bars between signal observation and execution,minimum=0"`
	TradePriceRule     TradePriceRule     `yaml:"trade_price" json:"trade_price" validate:"required,oneof=open close" jsonschema:"title=Trade Price,enum=open,enum=close"`
	ReturnMode         ReturnMode         `yaml:"return_mode" json:"return_mode" validate:"required,oneof=simple log" jsonschema:"title=Return Mode,enum=simple,enum=log"`
	OpenPositionPolicy OpenPositionPolicy `yaml:"open_position_policy" json:"open_position_policy" validate:"required,oneof=force_close leave_open" jsonschema:"title=Open Position Policy,enum=force_close,enum=leave_open"`
	// FeeModel names the commission model that converts costs into PnL.
	FeeModel string `yaml:"fee_model" json:"fee_model" validate:"required,oneof=proportional zero" jsonschema:"title=Fee Model,enum=proportional,enum=zero"`
}

// DefaultTradingParams mirrors the defaults of the interactive configuration.
func DefaultTradingParams() TradingParams {
	return TradingParams{
		TransactionCost:    0.001,
		Slippage:           0.0005,
		TradeDelay:         1,
		TradePriceRule:     TradePriceOpen,
		ReturnMode:         ReturnModeSimple,
		OpenPositionPolicy: OpenPositionForceClose,
		FeeModel:           "proportional",
	}
}

// Validate checks the struct tags.
func (p TradingParams) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTradingParams, "invalid trading params", err)
	}

	return nil
}

// CostRate is the per side cost fraction.
func (p TradingParams) CostRate() float64 {
	return p.TransactionCost + p.Slippage
}
