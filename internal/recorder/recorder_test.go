package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type EpisodeRecorderTestSuite struct {
	suite.Suite
	dir      string
	recorder *EpisodeRecorder
	start    time.Time
}

func TestEpisodeRecorderSuite(t *testing.T) {
	suite.Run(t, new(EpisodeRecorderTestSuite))
}

func (suite *EpisodeRecorderTestSuite) SetupTest() {
	suite.dir = filepath.Join(suite.T().TempDir(), "episodes")
	suite.start = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	suite.recorder = NewEpisodeRecorder(suite.dir, logger.NewNopLogger())
	suite.Require().NoError(suite.recorder.Initialize())
}

func (suite *EpisodeRecorderTestSuite) TearDownTest() {
	suite.NoError(suite.recorder.Close())
}

func (suite *EpisodeRecorderTestSuite) recordEpisode(episodeID string, steps int, trades []types.Trade) {
	for i := 1; i <= steps; i++ {
		suite.Require().NoError(suite.recorder.RecordTransition(types.Transition{
			EpisodeID: episodeID,
			Step:      i,
			Time:      suite.start.Add(time.Duration(i) * time.Minute),
			Action:    0.9,
			Reward:    0.01 * float64(i),
			Done:      i == steps,
			Close:     100,
			Cash:      10000,
			Equity:    10000,
			Holding:   i%2 == 0,
		}))
	}

	suite.Require().NoError(suite.recorder.RecordEpisode(types.EpisodeStats{
		EpisodeID:    episodeID,
		Symbol:       "AAPL",
		Steps:        steps,
		StartingCash: 10000,
		FinalCash:    10000,
	}, trades))
}

func countRows(path string) (int, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int

	err = db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s')", path)).Scan(&count)

	return count, err
}

func (suite *EpisodeRecorderTestSuite) TestRecordEpisodeExportsParquet() {
	trades := []types.Trade{
		{ID: "t1", Symbol: "AAPL", Size: 10, EntryPrice: 100, ExitPrice: 110, EntryTime: suite.start, ExitTime: suite.start.Add(time.Minute), PnL: 100, PnLPct: 0.1, ExitReason: types.OrderReasonStrategy},
	}
	suite.recordEpisode("episode-1", 3, trades)

	transitions, err := countRows(filepath.Join(suite.dir, "episode-1", "transitions.parquet"))
	suite.Require().NoError(err)
	suite.Equal(3, transitions)

	tradeRows, err := countRows(filepath.Join(suite.dir, "episode-1", "trades.parquet"))
	suite.Require().NoError(err)
	suite.Equal(1, tradeRows)
}

func (suite *EpisodeRecorderTestSuite) TestEpisodesAreExportedSeparately() {
	suite.recordEpisode("episode-1", 2, nil)
	suite.recordEpisode("episode-2", 5, nil)

	transitions, err := countRows(filepath.Join(suite.dir, "episode-2", "transitions.parquet"))
	suite.Require().NoError(err)
	suite.Equal(5, transitions)

	tradeRows, err := countRows(filepath.Join(suite.dir, "episode-2", "trades.parquet"))
	suite.Require().NoError(err)
	suite.Equal(0, tradeRows)

	suite.Len(suite.recorder.Stats(), 2)
}

func (suite *EpisodeRecorderTestSuite) TestStatsFileListsEveryEpisode() {
	suite.recordEpisode("episode-1", 1, nil)
	suite.recordEpisode("episode-2", 1, nil)

	data, err := os.ReadFile(filepath.Join(suite.dir, statsFileName))
	suite.Require().NoError(err)

	var stats []types.EpisodeStats
	suite.Require().NoError(yaml.Unmarshal(data, &stats))
	suite.Require().Len(stats, 2)
	suite.Equal("episode-1", stats[0].EpisodeID)
	suite.Equal("episode-2", stats[1].EpisodeID)
	suite.Equal(10000.0, stats[1].FinalCash)
}

func (suite *EpisodeRecorderTestSuite) TestNotInitialized() {
	recorder := NewEpisodeRecorder(suite.dir, nil)

	err := recorder.RecordTransition(types.Transition{EpisodeID: "episode-1"})
	suite.True(errors.HasCode(err, errors.ErrCodeRecorderNotInitialized))

	err = recorder.RecordEpisode(types.EpisodeStats{EpisodeID: "episode-1"}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeRecorderNotInitialized))

	suite.NoError(recorder.Close())
}

func (suite *EpisodeRecorderTestSuite) TestClosedRecorderRejectsWrites() {
	suite.Require().NoError(suite.recorder.Close())

	err := suite.recorder.RecordTransition(types.Transition{EpisodeID: "episode-1"})
	suite.True(errors.HasCode(err, errors.ErrCodeRecorderNotInitialized))
}
