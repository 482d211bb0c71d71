package commission_fee

import "github.com/shopspring/decimal"

// ProportionalCommissionFee charges a fixed fraction of the notional per side.
type ProportionalCommissionFee struct {
	rate decimal.Decimal
}

func NewProportionalCommissionFee(rate float64) CommissionFee {
	return &ProportionalCommissionFee{rate: decimal.NewFromFloat(rate)}
}

func (c *ProportionalCommissionFee) Calculate(notional decimal.Decimal) decimal.Decimal {
	return notional.Abs().Mul(c.rate)
}
