package simulator

import (
	"math"

	"github.com/rxtech-lab/argo-vector/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-vector/internal/types"
	"github.com/rxtech-lab/argo-vector/pkg/errors"
	"github.com/shopspring/decimal"
)

// costModel turns an entry and exit price into returns and PnL. Returns pay
// the per side rate twice; PnL pays the round trip fee of the fee model.
type costModel struct {
	rate float64
	mode types.ReturnMode
	fee  commission_fee.CommissionFee
}

func newCostModel(params types.TradingParams) costModel {
	return costModel{
		rate: params.CostRate(),
		mode: params.ReturnMode,
		fee:  commission_fee.GetCommissionFeeHandler(commission_fee.FeeModel(params.FeeModel), params.CostRate()),
	}
}

type settlement struct {
	gross     float64
	net       float64
	simpleNet float64
	grossPnL  decimal.Decimal
	fee       decimal.Decimal
	netPnL    decimal.Decimal
}

func (c costModel) settle(dir types.Direction, entry, exit float64) (settlement, error) {
	var s settlement

	simpleGross := dir.Sign() * (exit - entry) / entry
	s.simpleNet = simpleGross - 2*c.rate

	switch c.mode {
	case types.ReturnModeLog:
		if 1+s.simpleNet <= 0 {
			return s, errors.Newf(errors.ErrCodeUndefinedLogReturn,
				"log return undefined for %s trade %v -> %v with net simple return %v", dir, entry, exit, s.simpleNet)
		}

		if dir == types.DirectionShort {
			s.gross = math.Log(entry / exit)
		} else {
			s.gross = math.Log(exit / entry)
		}

		s.net = math.Log(1 + s.simpleNet)
	default:
		s.gross = simpleGross
		s.net = s.simpleNet
	}

	entryDec := decimal.NewFromFloat(entry)
	s.grossPnL = decimal.NewFromFloat(exit).Sub(entryDec).Mul(decimal.NewFromFloat(dir.Sign()))
	s.fee = commission_fee.RoundTrip(c.fee, entryDec)
	s.netPnL = s.grossPnL.Sub(s.fee)

	return s, nil
}
