package gym

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine"
	v1 "github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/internal/utils"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"go.uber.org/zap"
)

// PrepareBarsFunc supplies a fresh bar series for every episode.
type PrepareBarsFunc func() ([]types.MarketData, error)

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation Observation    `yaml:"observation" json:"observation"`
	Reward      float64        `yaml:"reward" json:"reward"`
	Done        bool           `yaml:"done" json:"done"`
	Extras      map[string]any `yaml:"extras" json:"extras"`
}

// Recorder receives every transition and, once the episode is done, its summary.
type Recorder interface {
	RecordTransition(transition types.Transition) error
	RecordEpisode(stats types.EpisodeStats, trades []types.Trade) error
}

type Option func(*BacktestEnv)

// WithLogger sets the logger of the environment and of the default simulation factory.
func WithLogger(log *logger.Logger) Option {
	return func(e *BacktestEnv) {
		e.log = log
	}
}

// WithSimulationFactory replaces the engine the environment drives.
func WithSimulationFactory(factory engine.SimulationFactory) Option {
	return func(e *BacktestEnv) {
		e.factory = factory
	}
}

// WithRecorder records transitions and episode summaries.
func WithRecorder(recorder Recorder) Option {
	return func(e *BacktestEnv) {
		e.recorder = recorder
	}
}

// episode is everything the environment tracks for the current simulation.
type episode struct {
	id          string
	sim         engine.Simulation
	tradeCount  int
	observation Observation
	reward      float64
	steps       int
	totalReward float64
	startTime   time.Time
}

// BacktestEnv exposes a backtest simulation through Reset and Step.
// It is not safe for concurrent use.
type BacktestEnv struct {
	prepareBars PrepareBarsFunc
	config      Config
	factory     engine.SimulationFactory
	recorder    Recorder
	log         *logger.Logger
	episode     *episode
}

func NewBacktestEnv(prepareBars PrepareBarsFunc, config Config, opts ...Option) (*BacktestEnv, error) {
	if prepareBars == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "prepare bars function is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	env := &BacktestEnv{
		prepareBars: prepareBars,
		config:      config,
		log:         logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(env)
	}

	if env.log == nil {
		env.log = logger.NewNopLogger()
	}

	if env.factory == nil {
		env.factory = v1.NewSimulationFactory(env.log)
	}

	return env, nil
}

// MinBars is the shortest series an episode can take a step on: the warm-up window, the
// bar Reset advances to and one more bar.
func MinBars(warmupBars int) int {
	return max(warmupBars, 1) + 2
}

// Reset starts a new episode on a fresh bar series and advances it by one bar.
// It returns every bar observed so far.
func (e *BacktestEnv) Reset() (History, error) {
	bars, err := e.prepareBars()
	if err != nil {
		return nil, err
	}

	broker := e.config.Broker
	if broker == "" {
		broker = commission_fee.BrokerPercentage
	}

	sim, err := e.factory(bars, engine.SimulationOptions{
		Symbol:          e.config.Symbol,
		InitialCash:     e.config.StartingCash,
		Commission:      commission_fee.GetCommissionFeeHandler(broker, e.config.Commission),
		ExclusiveOrders: e.config.ExclusiveOrders,
		WarmupBars:      e.config.WarmupBars,
	})
	if err != nil {
		return nil, err
	}

	if err := sim.Reset(); err != nil {
		return nil, err
	}

	ep := &episode{
		id:         uuid.New().String(),
		sim:        sim,
		tradeCount: 0,
	}

	ended, err := sim.Step()
	if err != nil {
		return nil, err
	}

	if ended {
		required := MinBars(e.config.WarmupBars)

		return nil, errors.NewInsufficientDataErrorf(required, len(bars), sim.CurrentBar().Symbol,
			"insufficient bars for symbol %s: need at least %d to take a step, got %d",
			sim.CurrentBar().Symbol, required, len(bars))
	}

	ep.reward = e.observe(ep)
	ep.startTime = sim.CurrentBar().Time
	e.episode = ep

	e.log.Info("Episode started",
		zap.String("episode_id", ep.id),
		zap.String("symbol", sim.CurrentBar().Symbol),
		zap.Int("bars", len(bars)),
		zap.Float64("cash", sim.Cash()),
	)

	return History(sim.Bars()), nil
}

// Step applies action, advances the simulation by one bar and returns the new observation.
func (e *BacktestEnv) Step(action float64) (StepResult, error) {
	if e.episode == nil {
		return StepResult{}, errors.New(errors.ErrCodeEnvNotReset, "reset must be called before step")
	}

	ep := e.episode

	if err := e.applyAction(action); err != nil {
		return StepResult{}, err
	}

	done, err := ep.sim.Step()
	if err != nil {
		return StepResult{}, err
	}

	reward := e.observe(ep)
	if done && e.config.DesiredGain.IsSome() {
		reward *= e.terminalFactor(ep.sim.Cash())
	}

	ep.reward = reward
	ep.steps++
	ep.totalReward += reward

	result := StepResult{
		Observation: ep.observation,
		Reward:      reward,
		Done:        done,
		Extras:      map[string]any{},
	}

	e.log.Debug("Step",
		zap.String("episode_id", ep.id),
		zap.Int("step", ep.steps),
		zap.Float64("action", action),
		zap.Float64("reward", reward),
		zap.Bool("done", done),
	)

	e.recordTransition(action, result)

	if done {
		e.finishEpisode()
	}

	return result, nil
}

// applyAction maps action through the dead zone to a buy, a close or nothing.
func (e *BacktestEnv) applyAction(action float64) error {
	if e.config.TradeMarketHoursOnly && !e.MarketHours() {
		return nil
	}

	sim := e.episode.sim
	threshold := e.config.ActionThreshold

	switch {
	case action < -threshold && e.HoldsPosition():
		return sim.ClosePosition()
	case action > threshold && !e.HoldsPosition():
		size := utils.MaxAffordableShares(sim.Cash(), e.LastClose())
		if size > 0 {
			return sim.Buy(size)
		}
	}

	return nil
}

// observe snapshots the current bar and returns the PnL percentage of the trade closed
// since the previous call, or 0.
func (e *BacktestEnv) observe(ep *episode) float64 {
	ep.observation = NewObservation(ep.sim.CurrentBar())

	trades := ep.sim.Trades()
	reward := 0.0

	if len(trades) > ep.tradeCount {
		reward = trades[len(trades)-1].PnLPct
	}

	ep.tradeCount = len(trades)

	return reward
}

// terminalFactor rescales the last reward by how far the episode return is from the desired gain.
func (e *BacktestEnv) terminalFactor(finalCash float64) float64 {
	start := e.config.StartingCash
	episodeReturn := (finalCash - start) / start

	return 1 + (episodeReturn - e.config.DesiredGain.Unwrap())
}

func (e *BacktestEnv) recordTransition(action float64, result StepResult) {
	if e.recorder == nil {
		return
	}

	ep := e.episode

	err := e.recorder.RecordTransition(types.Transition{
		EpisodeID: ep.id,
		Step:      ep.steps,
		Time:      ep.sim.CurrentBar().Time,
		Action:    action,
		Reward:    result.Reward,
		Done:      result.Done,
		Close:     result.Observation.Close,
		Cash:      ep.sim.Cash(),
		Equity:    ep.sim.Equity(),
		Holding:   e.HoldsPosition(),
	})
	if err != nil {
		e.log.Warn("Failed to record transition", zap.String("episode_id", ep.id), zap.Error(err))
	}
}

func (e *BacktestEnv) finishEpisode() {
	stats := e.Stats()

	e.log.Info("Episode finished",
		zap.String("episode_id", stats.EpisodeID),
		zap.Int("steps", stats.Steps),
		zap.Float64("total_reward", stats.TotalReward),
		zap.Int("trades", stats.TradeResult.NumberOfTrades),
		zap.Float64("final_cash", stats.FinalCash),
	)

	if e.recorder == nil {
		return
	}

	if err := e.recorder.RecordEpisode(stats, e.episode.sim.Trades()); err != nil {
		e.log.Warn("Failed to record episode", zap.String("episode_id", stats.EpisodeID), zap.Error(err))
	}
}

// Stats summarizes the current episode so far.
func (e *BacktestEnv) Stats() types.EpisodeStats {
	if e.episode == nil {
		return types.EpisodeStats{}
	}

	ep := e.episode
	trades := ep.sim.Trades()

	realized := 0.0
	for _, trade := range trades {
		realized += trade.PnL
	}

	finalCash := ep.sim.Cash()

	return types.EpisodeStats{
		EpisodeID:    ep.id,
		Symbol:       ep.sim.CurrentBar().Symbol,
		StartTime:    ep.startTime,
		EndTime:      ep.sim.CurrentBar().Time,
		Steps:        ep.steps,
		TotalReward:  ep.totalReward,
		TradeResult:  types.CalculateTradeResult(trades),
		TotalFees:    types.TotalFees(trades),
		RealizedPnL:  realized,
		StartingCash: e.config.StartingCash,
		FinalCash:    finalCash,
		Return:       (finalCash - e.config.StartingCash) / e.config.StartingCash,
	}
}

// EpisodeID returns the id of the current episode, or "" before the first Reset.
func (e *BacktestEnv) EpisodeID() string {
	if e.episode == nil {
		return ""
	}

	return e.episode.id
}

// Config returns the environment configuration.
func (e *BacktestEnv) Config() Config {
	return e.config
}

// Now returns the timestamp of the current bar.
func (e *BacktestEnv) Now() time.Time {
	if e.episode == nil {
		return time.Time{}
	}

	return e.episode.sim.CurrentBar().Time
}

// LastClose returns the close of the current bar.
func (e *BacktestEnv) LastClose() float64 {
	if e.episode == nil {
		return 0
	}

	return e.episode.sim.CurrentBar().Close
}

// HoldsPosition reports whether a position is open.
func (e *BacktestEnv) HoldsPosition() bool {
	return e.Position().IsOpen()
}

// Position returns the open position, or a zero Position when flat.
func (e *BacktestEnv) Position() types.Position {
	if e.episode == nil {
		return types.Position{}
	}

	return e.episode.sim.Position()
}

// Cash returns the cash balance of the simulation.
func (e *BacktestEnv) Cash() float64 {
	if e.episode == nil {
		return e.config.StartingCash
	}

	return e.episode.sim.Cash()
}

// Bars returns every bar observed so far.
func (e *BacktestEnv) Bars() []types.MarketData {
	if e.episode == nil {
		return nil
	}

	return e.episode.sim.Bars()
}

// Observation returns the last observation.
func (e *BacktestEnv) Observation() Observation {
	if e.episode == nil {
		return Observation{}
	}

	return e.episode.observation
}

// Reward returns the reward of the last step.
func (e *BacktestEnv) Reward() float64 {
	if e.episode == nil {
		return 0
	}

	return e.episode.reward
}

// Premarket reports whether the current bar is before 09:30.
func (e *BacktestEnv) Premarket() bool {
	return IsPremarket(e.Now())
}

// Aftermarket reports whether the current bar is after 16:00.
func (e *BacktestEnv) Aftermarket() bool {
	return IsAftermarket(e.Now())
}

// MarketHours reports whether the current bar is within regular trading hours.
func (e *BacktestEnv) MarketHours() bool {
	return IsMarketHours(e.Now())
}
