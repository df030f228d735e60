package engine

import (
	"sort"

	"github.com/rxtech-lab/argo-gym/internal/backtest/engine"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"go.uber.org/zap"
)

// BacktestSimulation steps through a bar series one bar at a time.
type BacktestSimulation struct {
	bars          []types.MarketData
	options       engine.SimulationOptions
	state         *BacktestState
	pendingOrders []types.ExecuteOrder
	cursor        int
	initialized   bool
	ended         bool
	log           *logger.Logger
}

// NewBacktestSimulation copies bars into time order. Call Reset before the first Step.
func NewBacktestSimulation(bars []types.MarketData, options engine.SimulationOptions, log *logger.Logger) *BacktestSimulation {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if options.Commission == nil {
		options.Commission = commission_fee.NewZeroCommissionFee()
	}

	if options.WarmupBars < 1 {
		options.WarmupBars = 1
	}

	sorted := make([]types.MarketData, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	if options.Symbol == "" && len(sorted) > 0 {
		options.Symbol = sorted[0].Symbol
	}

	return &BacktestSimulation{
		bars:          sorted,
		options:       options,
		state:         NewBacktestState(options.InitialCash, log),
		pendingOrders: []types.ExecuteOrder{},
		cursor:        -1,
		initialized:   false,
		ended:         false,
		log:           log,
	}
}

// NewSimulationFactory returns an engine.SimulationFactory building BacktestSimulations.
func NewSimulationFactory(log *logger.Logger) engine.SimulationFactory {
	return func(bars []types.MarketData, options engine.SimulationOptions) (engine.Simulation, error) {
		return NewBacktestSimulation(bars, options, log), nil
	}
}

// Reset implements engine.Simulation.
func (b *BacktestSimulation) Reset() error {
	required := b.options.WarmupBars + 1
	if len(b.bars) < required {
		return errors.NewInsufficientDataErrorf(required, len(b.bars), b.options.Symbol,
			"insufficient bars for symbol %s: need at least %d, got %d", b.options.Symbol, required, len(b.bars))
	}

	b.state.Reset()
	b.pendingOrders = []types.ExecuteOrder{}
	b.cursor = b.options.WarmupBars - 1
	b.initialized = true
	b.ended = false

	b.log.Debug("Simulation reset",
		zap.String("symbol", b.options.Symbol),
		zap.Int("bars", len(b.bars)),
		zap.Int("warmup", b.options.WarmupBars),
		zap.Float64("cash", b.options.InitialCash),
	)

	return nil
}

// Step implements engine.Simulation.
func (b *BacktestSimulation) Step() (bool, error) {
	if err := b.checkRunning(); err != nil {
		return b.ended, err
	}

	b.cursor++
	bar := b.bars[b.cursor]

	b.processPendingOrders(bar)

	if b.cursor == len(b.bars)-1 {
		b.finish(bar)
	}

	return b.ended, nil
}

// finish cancels what can no longer fill and liquidates the open position at the last close.
func (b *BacktestSimulation) finish(bar types.MarketData) {
	for _, order := range b.pendingOrders {
		b.cancel(order, bar, types.OrderReasonEndOfData)
	}

	b.pendingOrders = []types.ExecuteOrder{}

	if b.state.Position().IsOpen() {
		if err := b.fillSell(bar, bar.Close, "", types.Reason{
			Reason:  types.OrderReasonEndOfData,
			Message: "position liquidated at the last close",
		}); err != nil {
			b.log.Warn("Failed to liquidate position", zap.Error(err))
		}
	}

	b.ended = true

	b.log.Debug("Simulation ended",
		zap.String("symbol", b.options.Symbol),
		zap.Float64("cash", b.state.Cash()),
		zap.Int("trades", len(b.state.trades)),
	)
}

func (b *BacktestSimulation) checkRunning() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeSimulationNotReset, "simulation must be reset before use")
	}

	if b.ended {
		return errors.New(errors.ErrCodeSimulationEnded, "simulation has no more bars")
	}

	return nil
}

// CurrentBar implements engine.Simulation.
func (b *BacktestSimulation) CurrentBar() types.MarketData {
	if b.cursor < 0 {
		return types.MarketData{}
	}

	return b.bars[b.cursor]
}

// Bars implements engine.Simulation.
func (b *BacktestSimulation) Bars() []types.MarketData {
	observed := make([]types.MarketData, b.cursor+1)
	copy(observed, b.bars[:b.cursor+1])

	return observed
}

// Cash implements engine.Simulation.
func (b *BacktestSimulation) Cash() float64 {
	return b.state.Cash()
}

// Equity implements engine.Simulation.
func (b *BacktestSimulation) Equity() float64 {
	return b.state.Equity(b.CurrentBar().Close)
}

// Position implements engine.Simulation.
func (b *BacktestSimulation) Position() types.Position {
	return b.state.Position()
}

// Trades implements engine.Simulation.
func (b *BacktestSimulation) Trades() []types.Trade {
	return b.state.Trades()
}

// Orders returns every processed order of the current run.
func (b *BacktestSimulation) Orders() []types.Order {
	return b.state.Orders()
}

// Ended implements engine.Simulation.
func (b *BacktestSimulation) Ended() bool {
	return b.ended
}
