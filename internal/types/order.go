package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
)

type PurchaseType string

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

const (
	OrderReasonStrategy             string = "strategy"
	OrderReasonExclusiveClose       string = "exclusive_close"
	OrderReasonEndOfData            string = "end_of_data"
	OrderReasonSuperseded           string = "superseded"
	OrderReasonInsufficientBuyPower string = "insufficient_buying_power"
	OrderReasonNoPosition           string = "no_position"
)

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" csv:"message"`
}

// ExecuteOrder is a market order waiting for the next bar's open.
// A sell order closes the whole open position, so its Quantity is ignored.
type ExecuteOrder struct {
	ID       string       `yaml:"id" json:"id" csv:"id" validate:"required,uuid"`
	Symbol   string       `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side     PurchaseType `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL"`
	Quantity float64      `yaml:"quantity" json:"quantity" csv:"quantity" validate:"required_if=Side BUY,gte=0"`
	Reason   Reason       `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	PlacedAt time.Time    `yaml:"placed_at" json:"placed_at" csv:"placed_at"`
}

// Order is the outcome of an ExecuteOrder: filled, cancelled or rejected.
type Order struct {
	OrderID   string       `yaml:"order_id" json:"order_id" csv:"order_id"`
	Symbol    string       `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side      PurchaseType `yaml:"side" json:"side" csv:"side"`
	Quantity  float64      `yaml:"quantity" json:"quantity" csv:"quantity"`
	Price     float64      `yaml:"price" json:"price" csv:"price"`
	Timestamp time.Time    `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Status    OrderStatus  `yaml:"status" json:"status" csv:"status"`
	Reason    Reason       `yaml:"reason" json:"reason" csv:"reason"`
	Fee       float64      `yaml:"fee" json:"fee" csv:"fee"`
}

// Validate validates the ExecuteOrder struct.
func (eo *ExecuteOrder) Validate() error {
	validate := validator.New()

	err := validate.Struct(eo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid execute order", err)
	}

	return nil
}
