package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"go.uber.org/zap"
)

const statsFileName = "stats.yaml"

// EpisodeRecorder keeps transitions and trades in DuckDB and exports every finished
// episode to <dir>/<episode_id>/{transitions,trades}.parquet.
type EpisodeRecorder struct {
	db     *sql.DB
	dir    string
	sq     squirrel.StatementBuilderType
	stats  []types.EpisodeStats
	logger *logger.Logger
	mu     sync.Mutex
}

// NewEpisodeRecorder creates a recorder writing under dir. Call Initialize before use.
func NewEpisodeRecorder(dir string, log *logger.Logger) *EpisodeRecorder {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &EpisodeRecorder{
		db:     nil,
		dir:    dir,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		stats:  []types.EpisodeStats{},
		logger: log,
		mu:     sync.Mutex{},
	}
}

// Initialize creates the output directory and the in-memory tables.
func (r *EpisodeRecorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to create output directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to open DuckDB connection", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transitions (
			episode_id TEXT,
			step INTEGER,
			time TIMESTAMP,
			action DOUBLE,
			reward DOUBLE,
			done BOOLEAN,
			close DOUBLE,
			cash DOUBLE,
			equity DOUBLE,
			holding BOOLEAN
		);
		CREATE TABLE IF NOT EXISTS trades (
			episode_id TEXT,
			id TEXT,
			symbol TEXT,
			size DOUBLE,
			entry_price DOUBLE,
			exit_price DOUBLE,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_fee DOUBLE,
			exit_fee DOUBLE,
			pnl DOUBLE,
			pnl_pct DOUBLE,
			exit_reason TEXT
		);
	`)
	if err != nil {
		db.Close()

		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to create recorder tables", err)
	}

	r.db = db

	return nil
}

// RecordTransition stores one step.
func (r *EpisodeRecorder) RecordTransition(transition types.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeRecorderNotInitialized, "recorder not initialized")
	}

	query, args, err := r.sq.
		Insert("transitions").
		Columns("episode_id", "step", "time", "action", "reward", "done", "close", "cash", "equity", "holding").
		Values(transition.EpisodeID, transition.Step, transition.Time, transition.Action, transition.Reward,
			transition.Done, transition.Close, transition.Cash, transition.Equity, transition.Holding).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to build insert", err)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to insert transition", err)
	}

	return nil
}

// RecordEpisode stores the trades of a finished episode, exports the episode to parquet
// and rewrites stats.yaml with every episode recorded so far.
func (r *EpisodeRecorder) RecordEpisode(stats types.EpisodeStats, trades []types.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeRecorderNotInitialized, "recorder not initialized")
	}

	for _, trade := range trades {
		if err := r.insertTrade(stats.EpisodeID, trade); err != nil {
			return err
		}
	}

	episodeDir := filepath.Join(r.dir, stats.EpisodeID)
	if err := os.MkdirAll(episodeDir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to create episode directory", err)
	}

	for _, table := range []string{"transitions", "trades"} {
		path := filepath.Join(episodeDir, table+".parquet")
		if err := r.exportToParquet(table, stats.EpisodeID, path); err != nil {
			return err
		}
	}

	r.stats = append(r.stats, stats)

	if err := types.WriteEpisodeStats(filepath.Join(r.dir, statsFileName), r.stats); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to write episode stats", err)
	}

	r.logger.Debug("Episode recorded",
		zap.String("episode_id", stats.EpisodeID),
		zap.String("path", episodeDir),
		zap.Int("trades", len(trades)),
	)

	return nil
}

// Stats returns the summaries of the recorded episodes.
func (r *EpisodeRecorder) Stats() []types.EpisodeStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make([]types.EpisodeStats, len(r.stats))
	copy(stats, r.stats)

	return stats
}

// Dir returns the output directory.
func (r *EpisodeRecorder) Dir() string {
	return r.dir
}

// Close releases database resources.
func (r *EpisodeRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to close database", err)
		}

		r.db = nil
	}

	return nil
}

func (r *EpisodeRecorder) insertTrade(episodeID string, trade types.Trade) error {
	query, args, err := r.sq.
		Insert("trades").
		Columns("episode_id", "id", "symbol", "size", "entry_price", "exit_price", "entry_time", "exit_time",
			"entry_fee", "exit_fee", "pnl", "pnl_pct", "exit_reason").
		Values(episodeID, trade.ID, trade.Symbol, trade.Size, trade.EntryPrice, trade.ExitPrice, trade.EntryTime,
			trade.ExitTime, trade.EntryFee, trade.ExitFee, trade.PnL, trade.PnLPct, trade.ExitReason).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to build insert", err)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderWriteFailed, "failed to insert trade", err)
	}

	return nil
}

// exportToParquet copies the rows of one episode. COPY takes no parameters, so values are quoted inline.
func (r *EpisodeRecorder) exportToParquet(table string, episodeID string, path string) error {
	orderBy := "step"
	if table == "trades" {
		orderBy = "exit_time"
	}

	_, err := r.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM %s WHERE episode_id = %s ORDER BY %s ASC)
		TO %s (FORMAT PARQUET)
	`, table, quote(episodeID), orderBy, quote(path)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeRecorderWriteFailed, err, "failed to export %s to parquet", table)
	}

	return nil
}

func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
