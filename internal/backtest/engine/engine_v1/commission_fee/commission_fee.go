package commission_fee

type CommissionFee interface {
	// Calculate the commission fee in USD for a fill of quantity shares at price.
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
	BrokerPercentage        Broker = "percentage"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerZero,
	BrokerPercentage,
}

// GetCommissionFeeHandler returns the fee model for broker. rate is only used by BrokerPercentage.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerPercentage:
		return NewPercentageCommissionFee(rate)
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
