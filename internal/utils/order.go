package utils

import (
	"math"

	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
)

// MaxAffordableShares is the largest whole number of shares cash buys at price, ignoring fees.
// It returns 0 when price is not positive.
func MaxAffordableShares(cash float64, price float64) float64 {
	if price <= 0 {
		return 0
	}

	return math.Floor(cash / price)
}

// CalculateMaxQuantity calculates the maximum quantity that can be bought with the given balance, fees included.
func CalculateMaxQuantity(balance float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	maxQty := balance / price

	for i := 0; i < 10; i++ {
		totalCost := maxQty*price + commissionFee.Calculate(maxQty, price)
		if totalCost <= balance {
			break
		}

		adjustment := balance / totalCost
		maxQty = maxQty * adjustment
	}

	return maxQty
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}
