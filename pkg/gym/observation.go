package gym

import (
	"time"

	"github.com/rxtech-lab/argo-gym/internal/types"
)

// History is what Reset returns: every bar observed so far, warm-up window included.
// It is a list of bars while Step returns a single Observation.
type History []types.MarketData

// Observation is a snapshot of the current bar with the timestamp as epoch seconds.
type Observation struct {
	Timestamp float64 `yaml:"timestamp" json:"timestamp"`
	Symbol    string  `yaml:"symbol" json:"symbol"`
	Open      float64 `yaml:"open" json:"open"`
	High      float64 `yaml:"high" json:"high"`
	Low       float64 `yaml:"low" json:"low"`
	Close     float64 `yaml:"close" json:"close"`
	Volume    float64 `yaml:"volume" json:"volume"`
}

// NewObservation copies bar into an Observation.
func NewObservation(bar types.MarketData) Observation {
	return Observation{
		Timestamp: epochSeconds(bar.Time),
		Symbol:    bar.Symbol,
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}
}

// ToMap returns the numeric fields keyed by name.
func (o Observation) ToMap() map[string]float64 {
	return map[string]float64{
		"timestamp": o.Timestamp,
		"open":      o.Open,
		"high":      o.High,
		"low":       o.Low,
		"close":     o.Close,
		"volume":    o.Volume,
	}
}

// Time converts the epoch timestamp back to a UTC time.
func (o Observation) Time() time.Time {
	sec := int64(o.Timestamp)
	nsec := int64((o.Timestamp - float64(sec)) * float64(time.Second))

	return time.Unix(sec, nsec).UTC()
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
