package gym

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// BacktestEnvIntegrationTestSuite runs the environment on the bundled engine.
type BacktestEnvIntegrationTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBacktestEnvIntegrationSuite(t *testing.T) {
	suite.Run(t, new(BacktestEnvIntegrationTestSuite))
}

func (suite *BacktestEnvIntegrationTestSuite) SetupSuite() {
	suite.start = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
}

func (suite *BacktestEnvIntegrationTestSuite) bars(prices ...[2]float64) PrepareBarsFunc {
	return func() ([]types.MarketData, error) {
		data := make([]types.MarketData, len(prices))
		for i, p := range prices {
			data[i] = types.MarketData{
				Symbol: "AAPL",
				Time:   suite.start.Add(time.Duration(i) * time.Minute),
				Open:   p[0],
				High:   max(p[0], p[1]),
				Low:    min(p[0], p[1]),
				Close:  p[1],
				Volume: 1000,
			}
		}

		return data, nil
	}
}

func (suite *BacktestEnvIntegrationTestSuite) TestEpisode() {
	config := DefaultConfig()
	config.Broker = commission_fee.BrokerZero

	env, err := NewBacktestEnv(suite.bars(
		[2]float64{50, 50},
		[2]float64{50, 50},
		[2]float64{50, 55},
		[2]float64{60, 60},
		[2]float64{60, 62},
		[2]float64{65, 70},
	), config, WithLogger(logger.NewNopLogger()))
	suite.Require().NoError(err)

	history, err := env.Reset()
	suite.Require().NoError(err)
	suite.Len(history, 2)
	suite.Equal(50.0, env.LastClose())
	suite.Equal(suite.start.Add(time.Minute), env.Now())
	suite.InDelta(float64(suite.start.Add(time.Minute).Unix()), env.Observation().Timestamp, 1e-6)

	// floor(10000 / 50) shares, filled at the next open
	result, err := env.Step(0.9)
	suite.Require().NoError(err)
	suite.Equal(0.0, result.Reward)
	suite.True(env.HoldsPosition())
	suite.Equal(200.0, env.Position().Quantity)
	suite.Equal(55.0, result.Observation.Close)

	result, err = env.Step(-0.9)
	suite.Require().NoError(err)
	suite.InDelta(0.2, result.Reward, 1e-12)
	suite.False(env.HoldsPosition())
	suite.InDelta(12000.0, env.Cash(), 1e-9)

	result, err = env.Step(0)
	suite.Require().NoError(err)
	suite.Equal(0.0, result.Reward)
	suite.False(result.Done)

	// 193 shares at the last close of 62 shrink to 184 at the open of 65,
	// then the position is liquidated at the final close of 70
	result, err = env.Step(0.9)
	suite.Require().NoError(err)
	suite.True(result.Done)

	pnlPct := 920.0 / 11960.0
	factor := 1 + ((12920.0-10000.0)/10000.0 - 0.3)
	suite.InDelta(pnlPct*factor, result.Reward, 1e-12)
	suite.InDelta(12920.0, env.Cash(), 1e-9)

	stats := env.Stats()
	suite.Equal(4, stats.Steps)
	suite.Equal(2, stats.TradeResult.NumberOfTrades)
	suite.InDelta(2920.0, stats.RealizedPnL, 1e-9)
	suite.InDelta(0.292, stats.Return, 1e-12)

	_, err = env.Step(0)
	suite.True(errors.HasCode(err, errors.ErrCodeSimulationEnded))
}

func (suite *BacktestEnvIntegrationTestSuite) TestResetStartsFreshEpisode() {
	config := DefaultConfig()
	config.DesiredGain = optional.None[float64]()

	env, err := NewBacktestEnv(suite.bars(
		[2]float64{50, 50},
		[2]float64{50, 50},
		[2]float64{60, 60},
	), config)
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.Require().NoError(err)
	first := env.EpisodeID()

	result, err := env.Step(1)
	suite.Require().NoError(err)
	suite.True(result.Done)

	_, err = env.Reset()
	suite.Require().NoError(err)
	suite.NotEqual(first, env.EpisodeID())
	suite.Equal(10000.0, env.Cash())
	suite.False(env.HoldsPosition())
	suite.Equal(0, env.Stats().Steps)
}

func (suite *BacktestEnvIntegrationTestSuite) TestResetWithTooFewBars() {
	config := DefaultConfig()
	config.WarmupBars = 5

	env, err := NewBacktestEnv(suite.bars([2]float64{50, 50}, [2]float64{50, 50}), config)
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *BacktestEnvIntegrationTestSuite) TestResetWithoutBarToStepOn() {
	env, err := NewBacktestEnv(suite.bars([2]float64{50, 50}, [2]float64{50, 50}), DefaultConfig())
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.Require().True(errors.IsInsufficientDataError(err))

	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(3, insufficient.Required)
	suite.Equal(2, insufficient.Actual)

	_, err = env.Step(0)
	suite.True(errors.HasCode(err, errors.ErrCodeEnvNotReset))
}

func (suite *BacktestEnvIntegrationTestSuite) TestShortestEpisodeReportsDone() {
	env, err := NewBacktestEnv(suite.bars([2]float64{50, 50}, [2]float64{50, 50}, [2]float64{52, 52}), DefaultConfig())
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.Require().NoError(err)

	result, err := env.Step(0)
	suite.Require().NoError(err)
	suite.True(result.Done)
}

func (suite *BacktestEnvIntegrationTestSuite) TestBuyUnderDefaultCommission() {
	env, err := NewBacktestEnv(suite.bars(
		[2]float64{50, 50},
		[2]float64{50, 50},
		[2]float64{50, 55},
		[2]float64{55, 55},
	), DefaultConfig())
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.Require().NoError(err)

	// floor(10000 / 50) = 200 is requested; 200 * 50 plus the 0.2% fee exceeds the cash,
	// so the fill shrinks to floor(10000 / 50.1)
	_, err = env.Step(0.9)
	suite.Require().NoError(err)
	suite.True(env.HoldsPosition())
	suite.Equal(199.0, env.Position().Quantity)
	suite.Equal(10000.0, env.Cash())
}

func (suite *BacktestEnvIntegrationTestSuite) TestSyntheticEpisodeKeepsAccountConsistent() {
	generator := datasource.NewDataGenerator(11)
	generatorConfig := datasource.DefaultConfig()
	generatorConfig.Count = 500

	env, err := NewBacktestEnv(generator.PrepareBars(generatorConfig), DefaultConfig())
	suite.Require().NoError(err)

	_, err = env.Reset()
	suite.Require().NoError(err)

	actions := []float64{1, 0, 0, -1, 0.2, 0.8, -0.7}
	done := false
	steps := 0

	for !done {
		result, err := env.Step(actions[steps%len(actions)])
		suite.Require().NoError(err)

		done = result.Done
		steps++

		suite.False(math.IsNaN(result.Reward))
		suite.LessOrEqual(env.Position().Quantity*env.Position().EntryPrice, env.Cash()+1e-6)
	}

	stats := env.Stats()
	suite.Equal(steps, stats.Steps)
	suite.False(env.HoldsPosition())
	suite.Positive(stats.TradeResult.NumberOfTrades)
	suite.InDelta(10000.0+stats.RealizedPnL, stats.FinalCash, 1e-6)
}
