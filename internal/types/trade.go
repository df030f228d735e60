package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a closed round trip: one entry fill and one exit fill of the same size.
type Trade struct {
	ID         string    `yaml:"id" json:"id" csv:"id"`
	Symbol     string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Size       float64   `yaml:"size" json:"size" csv:"size"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	EntryFee   float64   `yaml:"entry_fee" json:"entry_fee" csv:"entry_fee"`
	ExitFee    float64   `yaml:"exit_fee" json:"exit_fee" csv:"exit_fee"`
	// PnL is the realized profit and loss net of both fees.
	// For example, 200 shares bought at $50 with a $20 fee and sold at $55 with a $22 fee
	// give (55-50)*200 - 20 - 22 = $958.
	PnL float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	// PnLPct is PnL relative to the cost basis (entry notional plus entry fee).
	PnLPct     float64 `yaml:"pnl_pct" json:"pnl_pct" csv:"pnl_pct"`
	ExitReason string  `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
}

// Position is the single open long holding of a simulation.
type Position struct {
	Symbol        string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Quantity      float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	EntryPrice    float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	EntryFee      float64   `yaml:"entry_fee" json:"entry_fee" csv:"entry_fee"`
	OpenTimestamp time.Time `yaml:"open_timestamp" json:"open_timestamp" csv:"open_timestamp"`
	EntryOrderID  string    `yaml:"entry_order_id" json:"entry_order_id" csv:"entry_order_id"`
}

// IsOpen reports whether the position holds any shares.
func (p Position) IsOpen() bool {
	return p.Quantity > 0
}

// CostBasis is the entry notional plus the entry fee.
func (p Position) CostBasis() decimal.Decimal {
	return decimal.NewFromFloat(p.Quantity).
		Mul(decimal.NewFromFloat(p.EntryPrice)).
		Add(decimal.NewFromFloat(p.EntryFee))
}

// UnrealizedPnL values the position at price, net of the entry fee only.
func (p Position) UnrealizedPnL(price float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	marketValue := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(price))
	result, _ := marketValue.Sub(p.CostBasis()).Float64()

	return result
}
