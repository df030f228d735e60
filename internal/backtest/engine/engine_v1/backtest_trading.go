package engine

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/internal/utils"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"go.uber.org/zap"
)

// Buy implements engine.Simulation.
// With exclusive orders, pending orders are cancelled and an open position is closed
// at the same open, before the buy fills. The fill can be smaller than size: when size
// shares plus the commission exceed the buying power at the next open, the order is
// shrunk to the largest affordable whole size, or rejected if that is zero.
func (b *BacktestSimulation) Buy(size float64) error {
	if err := b.checkRunning(); err != nil {
		return err
	}

	order := types.ExecuteOrder{
		ID:       uuid.New().String(),
		Symbol:   b.options.Symbol,
		Side:     types.PurchaseTypeBuy,
		Quantity: size,
		Reason:   types.Reason{Reason: types.OrderReasonStrategy, Message: "buy"},
		PlacedAt: b.CurrentBar().Time,
	}

	if err := order.Validate(); err != nil {
		return err
	}

	if b.options.ExclusiveOrders {
		for _, pending := range b.pendingOrders {
			b.cancel(pending, b.CurrentBar(), types.OrderReasonSuperseded)
		}

		b.pendingOrders = []types.ExecuteOrder{}

		if b.state.Position().IsOpen() {
			b.pendingOrders = append(b.pendingOrders, types.ExecuteOrder{
				ID:       uuid.New().String(),
				Symbol:   b.options.Symbol,
				Side:     types.PurchaseTypeSell,
				Reason:   types.Reason{Reason: types.OrderReasonExclusiveClose, Message: "closed before a new entry"},
				PlacedAt: order.PlacedAt,
			})
		}
	}

	b.pendingOrders = append(b.pendingOrders, order)

	return nil
}

// ClosePosition implements engine.Simulation. It is a no-op when flat.
func (b *BacktestSimulation) ClosePosition() error {
	if err := b.checkRunning(); err != nil {
		return err
	}

	if !b.state.Position().IsOpen() {
		b.log.Debug("No position to close", zap.String("symbol", b.options.Symbol))

		return nil
	}

	b.pendingOrders = append(b.pendingOrders, types.ExecuteOrder{
		ID:       uuid.New().String(),
		Symbol:   b.options.Symbol,
		Side:     types.PurchaseTypeSell,
		Reason:   types.Reason{Reason: types.OrderReasonStrategy, Message: "close position"},
		PlacedAt: b.CurrentBar().Time,
	})

	return nil
}

// processPendingOrders fills every pending order at the bar's open, in placement order.
func (b *BacktestSimulation) processPendingOrders(bar types.MarketData) {
	if len(b.pendingOrders) == 0 {
		return
	}

	orders := b.pendingOrders
	b.pendingOrders = []types.ExecuteOrder{}

	for _, order := range orders {
		var err error

		switch order.Side {
		case types.PurchaseTypeBuy:
			err = b.fillBuy(bar, order)
		case types.PurchaseTypeSell:
			if !b.state.Position().IsOpen() {
				b.cancel(order, bar, types.OrderReasonNoPosition)

				continue
			}

			err = b.fillSell(bar, bar.Open, order.ID, order.Reason)
		}

		if err != nil {
			b.log.Warn("Failed to fill order",
				zap.String("order_id", order.ID),
				zap.String("side", string(order.Side)),
				zap.Error(err),
			)
		}
	}
}

// fillBuy fills at the open. An order the buying power cannot cover is shrunk to the
// largest affordable whole size, and rejected if that is zero.
func (b *BacktestSimulation) fillBuy(bar types.MarketData, order types.ExecuteOrder) error {
	price := bar.Open
	if price <= 0 {
		b.reject(order, bar, types.OrderReasonInsufficientBuyPower)

		return errors.Newf(errors.ErrCodeOrderFailed, "invalid open price: %f", price)
	}

	quantity := order.Quantity
	fee := b.options.Commission.Calculate(quantity, price)
	buyingPower := b.state.BuyingPower()

	if quantity*price+fee > buyingPower {
		maxQty := utils.CalculateMaxQuantity(buyingPower, price, b.options.Commission)
		quantity = utils.RoundToDecimalPrecision(maxQty, 0)

		if quantity <= 0 {
			b.reject(order, bar, types.OrderReasonInsufficientBuyPower)

			return nil
		}

		fee = b.options.Commission.Calculate(quantity, price)
		b.log.Debug("Buy order shrunk to buying power",
			zap.String("order_id", order.ID),
			zap.Float64("requested", order.Quantity),
			zap.Float64("filled", quantity),
		)
	}

	filled := types.Order{
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      types.PurchaseTypeBuy,
		Quantity:  quantity,
		Price:     price,
		Timestamp: bar.Time,
		Status:    types.OrderStatusFilled,
		Reason:    order.Reason,
		Fee:       fee,
	}

	if err := b.state.Open(filled); err != nil {
		return err
	}

	b.log.Debug("Buy order filled",
		zap.String("order_id", order.ID),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("fee", fee),
	)

	return nil
}

func (b *BacktestSimulation) fillSell(bar types.MarketData, price float64, orderID string, reason types.Reason) error {
	if orderID == "" {
		orderID = uuid.New().String()
	}

	position := b.state.Position()
	filled := types.Order{
		OrderID:   orderID,
		Symbol:    position.Symbol,
		Side:      types.PurchaseTypeSell,
		Quantity:  position.Quantity,
		Price:     price,
		Timestamp: bar.Time,
		Status:    types.OrderStatusFilled,
		Reason:    reason,
		Fee:       b.options.Commission.Calculate(position.Quantity, price),
	}

	_, err := b.state.Close(filled, reason.Reason)

	return err
}

func (b *BacktestSimulation) cancel(order types.ExecuteOrder, bar types.MarketData, reason string) {
	b.finalize(order, bar, types.OrderStatusCancelled, reason)
}

func (b *BacktestSimulation) reject(order types.ExecuteOrder, bar types.MarketData, reason string) {
	b.finalize(order, bar, types.OrderStatusRejected, reason)
}

func (b *BacktestSimulation) finalize(order types.ExecuteOrder, bar types.MarketData, status types.OrderStatus, reason string) {
	b.state.RecordOrder(types.Order{
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		Quantity:  order.Quantity,
		Timestamp: bar.Time,
		Status:    status,
		Reason:    types.Reason{Reason: reason, Message: order.Reason.Message},
	})

	b.log.Debug("Order not filled",
		zap.String("order_id", order.ID),
		zap.String("status", string(status)),
		zap.String("reason", reason),
	)
}
