package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/recorder"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/gym"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// runAction runs episodes of the environment with a baseline policy and prints their stats.
func runAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config := gym.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		config, err = gym.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	if symbol := cmd.String("symbol"); symbol != "" {
		config.Symbol = symbol
	}

	prepareBars, closeBars, err := barSource(cmd, config, log)
	if err != nil {
		return err
	}
	defer closeBars()

	opts := []gym.Option{gym.WithLogger(log)}

	if output := cmd.String("output"); output != "" {
		episodeRecorder := recorder.NewEpisodeRecorder(output, log)
		if err := episodeRecorder.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize recorder: %w", err)
		}
		defer episodeRecorder.Close()

		opts = append(opts, gym.WithRecorder(episodeRecorder))
	}

	env, err := gym.NewBacktestEnv(prepareBars, config, opts...)
	if err != nil {
		return err
	}

	policy, err := NewPolicy(PolicyName(cmd.String("policy")), int64(cmd.Int("seed")))
	if err != nil {
		return err
	}

	episodes := int(cmd.Int("episodes"))
	bar := progressbar.NewOptions(episodes,
		progressbar.OptionSetDescription(fmt.Sprintf("Running %s", cmd.String("policy"))),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	stats, err := runEpisodes(ctx, env, policy, episodes, func() { _ = bar.Add(1) })
	if err != nil {
		return err
	}

	_ = bar.Finish()

	output, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	fmt.Println(string(output))

	return nil
}

// barSource returns the bar supplier selected by the flags and a function releasing it.
func barSource(cmd *cli.Command, config gym.Config, log *logger.Logger) (gym.PrepareBarsFunc, func(), error) {
	dataPath := cmd.String("data")
	if dataPath == "" {
		generatorConfig := datasource.DefaultConfig()
		generatorConfig.Count = int(cmd.Int("bars"))

		if config.Symbol != "" {
			generatorConfig.Symbol = config.Symbol
		}

		generator := datasource.NewDataGenerator(int64(cmd.Int("seed")))

		log.Info("Using synthetic bars", zap.Int("bars", generatorConfig.Count))

		return generator.PrepareBars(generatorConfig), func() {}, nil
	}

	interval := optional.None[datasource.Interval]()
	if value := cmd.String("interval"); value != "" {
		parsed, err := datasource.ParseInterval(value)
		if err != nil {
			return nil, nil, err
		}

		interval = optional.Some(parsed)
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create data source: %w", err)
	}

	start := optional.None[time.Time]()
	if cmd.IsSet("start") {
		start = optional.Some(cmd.Timestamp("start"))
	}

	end := optional.None[time.Time]()
	if cmd.IsSet("end") {
		end = optional.Some(cmd.Timestamp("end"))
	}

	closeFn := func() {
		if err := ds.Close(); err != nil {
			log.Warn("Failed to close data source", zap.Error(err))
		}
	}

	return datasource.PrepareBars(ds, dataPath, datasource.PrepareOptions{
		Symbol:   config.Symbol,
		Start:    start,
		End:      end,
		Interval: interval,
		MinBars:  gym.MinBars(config.WarmupBars),
	}), closeFn, nil
}

// runEpisodes plays episodes to the end and returns their stats.
func runEpisodes(ctx context.Context, env *gym.BacktestEnv, policy Policy, episodes int, onEpisode func()) ([]types.EpisodeStats, error) {
	stats := make([]types.EpisodeStats, 0, episodes)

	for i := 0; i < episodes; i++ {
		if _, err := env.Reset(); err != nil {
			return stats, fmt.Errorf("failed to reset episode %d: %w", i, err)
		}

		observation := env.Observation()

		for {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			result, err := env.Step(policy.Act(observation))
			if err != nil {
				return stats, fmt.Errorf("failed to step episode %d: %w", i, err)
			}

			observation = result.Observation

			if result.Done {
				break
			}
		}

		stats = append(stats, env.Stats())

		if onEpisode != nil {
			onEpisode()
		}
	}

	return stats, nil
}

// schemaAction prints the JSON schema of the environment config.
func schemaAction(_ context.Context, _ *cli.Command) error {
	config := gym.DefaultConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func policyNames() string {
	names := make([]string, len(AllPolicies))
	for i, policy := range AllPolicies {
		names[i] = string(policy)
	}

	return strings.Join(names, ", ")
}

func main() {
	cmd := &cli.Command{
		Name:  "argo-gym",
		Usage: "Run reinforcement learning episodes over a backtest",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run episodes with a baseline policy and print episode stats",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the environment config YAML",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Parquet or CSV bar file. Synthetic bars are generated when empty",
					},
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "Symbol to trade. Overrides the config",
					},
					&cli.TimestampFlag{
						Name:  "start",
						Usage: "Only use bars from `YYYY-MM-DD`",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:  "end",
						Usage: "Only use bars up to `YYYY-MM-DD`",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:  "interval",
						Usage: "Resample the bars of the data file (1m, 5m, 15m, 30m, 1h, 4h, 6h, 8h, 12h, 1d, 1w)",
					},
					&cli.StringFlag{
						Name:    "policy",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Baseline policy (%s)", policyNames()),
						Value:   string(PolicyRandom),
					},
					&cli.IntFlag{
						Name:    "episodes",
						Aliases: []string{"n"},
						Usage:   "Number of episodes",
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "bars",
						Usage: "Number of synthetic bars per episode",
						Value: 390,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Seed of the random policy and the synthetic bars",
						Value: 42,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory receiving transitions, trades and stats of every episode",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the environment config",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
