package commission_fee

import "github.com/shopspring/decimal"

// PercentageCommissionFee charges a fixed fraction of the fill notional, e.g. 0.002 for 0.2%.
type PercentageCommissionFee struct {
	rate decimal.Decimal
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{
		rate: decimal.NewFromFloat(rate),
	}
}

func (c *PercentageCommissionFee) Calculate(quantity float64, price float64) float64 {
	if quantity <= 0 || price <= 0 {
		return 0
	}

	fee, _ := decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(price)).
		Mul(c.rate).
		Float64()

	return fee
}
