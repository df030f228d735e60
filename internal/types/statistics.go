package types

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	NumberOfTrades        int     `yaml:"number_of_trades" json:"number_of_trades"`
	NumberOfWinningTrades int     `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	NumberOfLosingTrades  int     `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	WinRate               float64 `yaml:"win_rate" json:"win_rate"`
	MaximumLoss           float64 `yaml:"maximum_loss" json:"maximum_loss"`
	MaximumProfit         float64 `yaml:"maximum_profit" json:"maximum_profit"`
}

// EpisodeStats summarizes one episode of the environment.
type EpisodeStats struct {
	EpisodeID    string      `yaml:"episode_id" json:"episode_id"`
	Symbol       string      `yaml:"symbol" json:"symbol"`
	StartTime    time.Time   `yaml:"start_time" json:"start_time"`
	EndTime      time.Time   `yaml:"end_time" json:"end_time"`
	Steps        int         `yaml:"steps" json:"steps"`
	TotalReward  float64     `yaml:"total_reward" json:"total_reward"`
	TradeResult  TradeResult `yaml:"trade_result" json:"trade_result"`
	TotalFees    float64     `yaml:"total_fees" json:"total_fees"`
	RealizedPnL  float64     `yaml:"realized_pnl" json:"realized_pnl"`
	StartingCash float64     `yaml:"starting_cash" json:"starting_cash"`
	FinalCash    float64     `yaml:"final_cash" json:"final_cash"`
	Return       float64     `yaml:"return" json:"return"`
}

// CalculateTradeResult aggregates win/loss counts over closed trades.
func CalculateTradeResult(trades []Trade) TradeResult {
	result := TradeResult{NumberOfTrades: len(trades)}
	if len(trades) == 0 {
		return result
	}

	result.MaximumLoss = trades[0].PnL
	result.MaximumProfit = trades[0].PnL

	for _, trade := range trades {
		switch {
		case trade.PnL > 0:
			result.NumberOfWinningTrades++
		case trade.PnL < 0:
			result.NumberOfLosingTrades++
		}

		result.MaximumLoss = min(result.MaximumLoss, trade.PnL)
		result.MaximumProfit = max(result.MaximumProfit, trade.PnL)
	}

	result.WinRate = float64(result.NumberOfWinningTrades) / float64(result.NumberOfTrades)

	return result
}

// TotalFees sums entry and exit fees of closed trades.
func TotalFees(trades []Trade) float64 {
	total := decimal.Zero
	for _, trade := range trades {
		total = total.Add(decimal.NewFromFloat(trade.EntryFee)).Add(decimal.NewFromFloat(trade.ExitFee))
	}

	result, _ := total.Float64()

	return result
}

// WriteEpisodeStats writes the stats as YAML to path.
func WriteEpisodeStats(path string, stats []EpisodeStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal episode stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write episode stats to file: %w", err)
	}

	return nil
}
