package engine

import (
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-gym/internal/types"
)

// SimulationOptions configures one simulation run over a bar series.
type SimulationOptions struct {
	// Symbol is stamped on orders and trades. Defaults to the symbol of the first bar.
	Symbol string
	// InitialCash is the cash balance at reset.
	InitialCash float64
	// Commission is applied to every fill. Nil means no commission.
	Commission commission_fee.CommissionFee
	// ExclusiveOrders makes every new buy cancel pending orders and close the open position first.
	ExclusiveOrders bool
	// WarmupBars is the number of bars consumed before the first tradable bar. Values below 1 mean 1.
	WarmupBars int
}

// SimulationFactory builds a fresh simulation for one episode.
type SimulationFactory func(bars []types.MarketData, options SimulationOptions) (Simulation, error)

// Simulation is a bar-by-bar backtest that is advanced by its caller.
// Orders placed between two steps are filled at the open of the next bar.
//
//nolint:interfacebloat // Simulation exposes the whole account view the environment reads
type Simulation interface {
	// Reset clears cash, position, trades and pending orders and rewinds to the end of the warm-up window.
	Reset() error
	// Step advances one bar and reports whether the series is exhausted.
	// Once it has returned true, further calls fail.
	Step() (bool, error)
	// Buy places a market order for size shares. The fill may be shrunk to the buying power.
	Buy(size float64) error
	// ClosePosition places a market order selling the whole open position.
	ClosePosition() error
	// CurrentBar returns the last bar the simulation advanced to.
	CurrentBar() types.MarketData
	// Bars returns every bar observed so far, warm-up window included.
	Bars() []types.MarketData
	// Cash returns the cash balance. It only changes when a trade closes.
	Cash() float64
	// Equity returns cash plus the unrealized PnL of the open position at the current close.
	Equity() float64
	// Position returns the open position, or a zero Position when flat.
	Position() types.Position
	// Trades returns the closed trades in closing order.
	Trades() []types.Trade
	// Ended reports whether the last bar has been consumed.
	Ended() bool
}
