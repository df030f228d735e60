package types

import "time"

// Transition is one environment step as seen by the agent.
type Transition struct {
	EpisodeID string    `yaml:"episode_id" json:"episode_id" csv:"episode_id"`
	Step      int       `yaml:"step" json:"step" csv:"step"`
	Time      time.Time `yaml:"time" json:"time" csv:"time"`
	Action    float64   `yaml:"action" json:"action" csv:"action"`
	Reward    float64   `yaml:"reward" json:"reward" csv:"reward"`
	Done      bool      `yaml:"done" json:"done" csv:"done"`
	Close     float64   `yaml:"close" json:"close" csv:"close"`
	Cash      float64   `yaml:"cash" json:"cash" csv:"cash"`
	Equity    float64   `yaml:"equity" json:"equity" csv:"equity"`
	Holding   bool      `yaml:"holding" json:"holding" csv:"holding"`
}
