package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestCalculateTradeResultEmpty() {
	result := CalculateTradeResult(nil)
	suite.Equal(TradeResult{}, result)
}

func (suite *StatisticsTestSuite) TestCalculateTradeResult() {
	trades := []Trade{
		{PnL: 100},
		{PnL: -40},
		{PnL: 0},
		{PnL: 60},
	}

	result := CalculateTradeResult(trades)
	suite.Equal(4, result.NumberOfTrades)
	suite.Equal(2, result.NumberOfWinningTrades)
	suite.Equal(1, result.NumberOfLosingTrades)
	suite.InDelta(0.5, result.WinRate, 1e-9)
	suite.Equal(-40.0, result.MaximumLoss)
	suite.Equal(100.0, result.MaximumProfit)
}

func (suite *StatisticsTestSuite) TestTotalFees() {
	trades := []Trade{
		{EntryFee: 0.1, ExitFee: 0.2},
		{EntryFee: 1.5, ExitFee: 2.5},
	}
	suite.InDelta(4.3, TotalFees(trades), 1e-9)
}

func (suite *StatisticsTestSuite) TestWriteEpisodeStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	stats := []EpisodeStats{
		{
			EpisodeID:    "episode-1",
			Symbol:       "AAPL",
			StartTime:    time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
			EndTime:      time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC),
			Steps:        390,
			TotalReward:  0.12,
			StartingCash: 10000,
			FinalCash:    10500,
			Return:       0.05,
		},
	}

	suite.Require().NoError(WriteEpisodeStats(path, stats))

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded []EpisodeStats
	suite.Require().NoError(yaml.Unmarshal(content, &decoded))
	suite.Require().Len(decoded, 1)
	suite.Equal("episode-1", decoded[0].EpisodeID)
	suite.Equal(390, decoded[0].Steps)
	suite.Equal(10500.0, decoded[0].FinalCash)
}
