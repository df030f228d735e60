package datasource

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
)

// DataGenerator generates synthetic bars with a geometric Brownian motion.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	Count    int
	// InitialPrice is the open of the first bar
	InitialPrice float64
	// Volatility is the standard deviation of the per bar return (0.002 = 0.2%)
	Volatility float64
	// Trend is the total drift over the series, spread evenly across bars
	Trend          float64
	VolumeBase     float64
	VolumeVariance float64
	// SessionOnly keeps bars within 09:30-16:00 on weekdays. After the close the next bar
	// is the open of the next weekday.
	SessionOnly bool
}

// DefaultConfig returns one regular session of one-minute bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          390,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
		SessionOnly:    true,
	}
}

// Generate creates config.Count bars.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, 0, max(config.Count, 0))
	price := config.InitialPrice
	current := config.StartTime

	if config.SessionOnly {
		current = alignToSession(current)
	}

	for i := 0; i < config.Count; i++ {
		open := price

		// Box-Muller
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, closePrice) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data = append(data, types.MarketData{
			Id:     "",
			Symbol: config.Symbol,
			Time:   current,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 2),
		})

		price = closePrice
		current = current.Add(config.Interval)

		if config.SessionOnly {
			current = alignToSession(current)
		}
	}

	return data
}

// PrepareBars returns a bar source drawing a new series on every call.
func (g *DataGenerator) PrepareBars(config GeneratorConfig) func() ([]types.MarketData, error) {
	return func() ([]types.MarketData, error) {
		if config.Count <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bar count must be positive, got %d", config.Count)
		}

		return g.Generate(config), nil
	}
}

// alignToSession moves t forward to the next time inside regular trading hours.
func alignToSession(t time.Time) time.Time {
	for {
		year, month, day := t.Date()
		open := time.Date(year, month, day, 9, 30, 0, 0, t.Location())
		closing := time.Date(year, month, day, 16, 0, 0, 0, t.Location())

		switch {
		case t.Weekday() == time.Saturday || t.Weekday() == time.Sunday || t.After(closing):
			t = time.Date(year, month, day+1, 9, 30, 0, 0, t.Location())
		case t.Before(open):
			t = open
		default:
			return t
		}
	}
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
