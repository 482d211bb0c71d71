package commission_fee

import "github.com/shopspring/decimal"

type CommissionFee interface {
	// Calculate returns the fee charged for one side of a trade on the given notional.
	Calculate(notional decimal.Decimal) decimal.Decimal
}

type FeeModel string

const (
	FeeModelProportional FeeModel = "proportional"
	FeeModelZero         FeeModel = "zero"
)

var AllFeeModels = []any{
	FeeModelProportional,
	FeeModelZero,
}

// GetCommissionFeeHandler returns the fee model charging rate per side.
// Unknown models fall back to the proportional model.
func GetCommissionFeeHandler(model FeeModel, rate float64) CommissionFee {
	switch model {
	case FeeModelZero:
		return NewZeroCommissionFee()
	case FeeModelProportional:
		return NewProportionalCommissionFee(rate)
	default:
		return NewProportionalCommissionFee(rate)
	}
}

// RoundTrip is the fee for opening and closing a position at entry notional.
func RoundTrip(fee CommissionFee, notional decimal.Decimal) decimal.Decimal {
	return fee.Calculate(notional).Mul(decimal.NewFromInt(2))
}
