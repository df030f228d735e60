package engine

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState is the account of one simulation: cash, the open position and the trade log.
// Cash only moves when a trade closes, by the realized PnL of that trade.
type BacktestState struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	position    types.Position
	trades      []types.Trade
	orders      []types.Order
	logger      *logger.Logger
}

func NewBacktestState(initialCash float64, logger *logger.Logger) *BacktestState {
	state := &BacktestState{
		initialCash: decimal.NewFromFloat(initialCash),
		logger:      logger,
	}
	state.Reset()

	return state
}

// Reset restores the initial cash and drops the position, trades and orders.
func (b *BacktestState) Reset() {
	b.cash = b.initialCash
	b.position = types.Position{}
	b.trades = nil
	b.orders = nil
}

// Cash returns the cash balance.
func (b *BacktestState) Cash() float64 {
	result, _ := b.cash.Float64()

	return result
}

// BuyingPower is the cash not tied up in the cost basis of the open position.
func (b *BacktestState) BuyingPower() float64 {
	result, _ := b.cash.Sub(b.position.CostBasis()).Float64()

	return result
}

// Equity values the account at price.
func (b *BacktestState) Equity(price float64) float64 {
	return b.Cash() + b.position.UnrealizedPnL(price)
}

// Position returns the open position.
func (b *BacktestState) Position() types.Position {
	return b.position
}

// Trades returns a copy of the closed trades.
func (b *BacktestState) Trades() []types.Trade {
	trades := make([]types.Trade, len(b.trades))
	copy(trades, b.trades)

	return trades
}

// Orders returns a copy of every processed order, filled or not.
func (b *BacktestState) Orders() []types.Order {
	orders := make([]types.Order, len(b.orders))
	copy(orders, b.orders)

	return orders
}

// RecordOrder appends an unfilled (cancelled or rejected) order to the order log.
func (b *BacktestState) RecordOrder(order types.Order) {
	b.orders = append(b.orders, order)
}

// Open applies a filled buy. Buying while holding averages the entry price into the open position.
func (b *BacktestState) Open(order types.Order) error {
	if order.Side != types.PurchaseTypeBuy {
		return errors.Newf(errors.ErrCodeInvalidOrder, "cannot open a position with a %s order", order.Side)
	}

	if order.Quantity <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrder, "invalid fill quantity: %f", order.Quantity)
	}

	b.orders = append(b.orders, order)

	if !b.position.IsOpen() {
		b.position = types.Position{
			Symbol:        order.Symbol,
			Quantity:      order.Quantity,
			EntryPrice:    order.Price,
			EntryFee:      order.Fee,
			OpenTimestamp: order.Timestamp,
			EntryOrderID:  order.OrderID,
		}

		return nil
	}

	heldQty := decimal.NewFromFloat(b.position.Quantity)
	addedQty := decimal.NewFromFloat(order.Quantity)
	totalQty := heldQty.Add(addedQty)
	notional := heldQty.Mul(decimal.NewFromFloat(b.position.EntryPrice)).
		Add(addedQty.Mul(decimal.NewFromFloat(order.Price)))

	b.position.Quantity, _ = totalQty.Float64()
	b.position.EntryPrice, _ = notional.Div(totalQty).Float64()
	b.position.EntryFee, _ = decimal.NewFromFloat(b.position.EntryFee).Add(decimal.NewFromFloat(order.Fee)).Float64()

	return nil
}

// Close applies a filled sell of the whole position and returns the realized trade.
func (b *BacktestState) Close(order types.Order, exitReason string) (types.Trade, error) {
	if order.Side != types.PurchaseTypeSell {
		return types.Trade{}, errors.Newf(errors.ErrCodeInvalidOrder, "cannot close a position with a %s order", order.Side)
	}

	if !b.position.IsOpen() {
		return types.Trade{}, errors.New(errors.ErrCodePositionNotFound, "no open position to close")
	}

	qty := decimal.NewFromFloat(b.position.Quantity)
	costBasis := b.position.CostBasis()
	proceeds := qty.Mul(decimal.NewFromFloat(order.Price)).Sub(decimal.NewFromFloat(order.Fee))
	pnlDec := proceeds.Sub(costBasis)

	pnl, _ := pnlDec.Float64()
	pnlPct := 0.0
	if !costBasis.IsZero() {
		pnlPct, _ = pnlDec.Div(costBasis).Float64()
	}

	trade := types.Trade{
		ID:         uuid.New().String(),
		Symbol:     b.position.Symbol,
		Size:       b.position.Quantity,
		EntryPrice: b.position.EntryPrice,
		ExitPrice:  order.Price,
		EntryTime:  b.position.OpenTimestamp,
		ExitTime:   order.Timestamp,
		EntryFee:   b.position.EntryFee,
		ExitFee:    order.Fee,
		PnL:        pnl,
		PnLPct:     pnlPct,
		ExitReason: exitReason,
	}

	order.Quantity = b.position.Quantity
	b.orders = append(b.orders, order)
	b.trades = append(b.trades, trade)
	b.cash = b.cash.Add(pnlDec)
	b.position = types.Position{}

	b.logger.Debug("Trade closed",
		zap.String("symbol", trade.Symbol),
		zap.Float64("size", trade.Size),
		zap.Float64("pnl", trade.PnL),
		zap.Float64("pnl_pct", trade.PnLPct),
		zap.String("reason", exitReason),
	)

	return trade, nil
}
