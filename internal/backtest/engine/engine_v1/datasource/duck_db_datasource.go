package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/logger"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"go.uber.org/zap"
)

var marketDataColumns = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// The path parameter specifies the DuckDB database file location, ":memory:" keeps it in memory.
// This is distinct from Initialize() which loads market data into the database.
// A nil log discards log output.
func NewDataSource(path string, log *logger.Logger) (DataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`SET threads=4;`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to configure duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	source, err := tableFunction(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "data file not found: %s", path)
	}

	_, err = d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Squirrel doesn't support CREATE VIEW. Columns are cast so CSV and parquet files scan the same way.
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT
			CAST(time AS TIMESTAMP) AS time,
			CAST(symbol AS VARCHAR) AS symbol,
			CAST(open AS DOUBLE) AS open,
			CAST(high AS DOUBLE) AS high,
			CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close,
			CAST(volume AS DOUBLE) AS volume
		FROM %s;
	`, source)

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to load market data from %s", path)
	}

	return nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.sq.
		Select("COUNT(*)").
		From("market_data").
		Where(timeBounds(start, end)).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int

	err = d.db.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count market data", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool) {
	return func(yield func(types.MarketData, error) bool) {
		d.logger.Debug("Reading all data from DuckDB")

		query, args, err := d.sq.
			Select(marketDataColumns...).
			From("market_data").
			Where(timeBounds(start, end)).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			yield(types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err))

			return
		}

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			data, err := scanMarketData(rows)
			if err != nil {
				yield(types.MarketData{}, err)

				return
			}

			if !yield(data, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err))
		}
	}
}

// GetRange implements DataSource.
func (d *DuckDBDataSource) GetRange(start time.Time, end time.Time, interval optional.Option[Interval]) ([]types.MarketData, error) {
	var intervalMinutes optional.Option[int] = optional.None[int]()

	if interval.IsSome() {
		minutes, err := getIntervalMinutes(interval.Unwrap())
		if err != nil {
			return nil, err
		}

		intervalMinutes = optional.Some(minutes)
	}

	query, args, err := d.buildGetRangeQuery(start, end, intervalMinutes)
	if err != nil {
		return nil, err
	}

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	result := make([]types.MarketData, 0, 1000)

	for rows.Next() {
		data, err := scanMarketData(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, data)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return result, nil
}

// ReadLastData implements DataSource.
// Returns the most recent market data for the specified symbol.
func (d *DuckDBDataSource) ReadLastData(symbol string) (types.MarketData, error) {
	d.logger.Debug("Reading last data for symbol", zap.String("symbol", symbol))

	query, args, err := d.sq.
		Select(marketDataColumns...).
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	data, err := scanMarketData(d.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MarketData{}, errors.Newf(errors.ErrCodeNoDataFound, "no data found for symbol: %s", symbol)
		}

		return types.MarketData{}, err
	}

	return data, nil
}

// Symbols implements DataSource.
func (d *DuckDBDataSource) Symbols() ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return symbols, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarketData(row rowScanner) (types.MarketData, error) {
	var (
		timestamp                      time.Time
		open, high, low, close, volume float64
		symbol                         string
	)

	err := row.Scan(&timestamp, &symbol, &open, &high, &low, &close, &volume)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MarketData{}, err
		}

		return types.MarketData{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
	}

	return types.MarketData{
		Id:     "",
		Symbol: symbol,
		Time:   timestamp,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}, nil
}

func timeBounds(start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.And {
	conditions := squirrel.And{}

	if start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return conditions
}

// buildGetRangeQuery constructs the SQL query for GetRange method.
func (d *DuckDBDataSource) buildGetRangeQuery(start time.Time, end time.Time, intervalMinutes optional.Option[int]) (string, []interface{}, error) {
	if !intervalMinutes.IsSome() {
		query, args, err := d.sq.
			Select(marketDataColumns...).
			From("market_data").
			Where(squirrel.And{
				squirrel.GtOrEq{"time": start},
				squirrel.LtOrEq{"time": end},
			}).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
		}

		return query, args, nil
	}

	// Window functions are not expressible in squirrel
	minutes := intervalMinutes.Unwrap()
	query := fmt.Sprintf(`
		WITH time_buckets AS MATERIALIZED (
			SELECT
				time_bucket(INTERVAL '%d minutes', time) as bucket_time,
				symbol,
				FIRST_VALUE(open) OVER (PARTITION BY time_bucket(INTERVAL '%d minutes', time), symbol ORDER BY time) as open,
				MAX(high) OVER (PARTITION BY time_bucket(INTERVAL '%d minutes', time), symbol) as high,
				MIN(low) OVER (PARTITION BY time_bucket(INTERVAL '%d minutes', time), symbol) as low,
				LAST_VALUE(close) OVER (PARTITION BY time_bucket(INTERVAL '%d minutes', time), symbol ORDER BY time ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING) as close,
				SUM(volume) OVER (PARTITION BY time_bucket(INTERVAL '%d minutes', time), symbol) as volume
			FROM market_data
			WHERE time >= $1 AND time <= $2
		)
		SELECT DISTINCT
			bucket_time as time,
			symbol,
			open,
			high,
			low,
			close,
			volume
		FROM time_buckets
		ORDER BY bucket_time ASC
	`, minutes, minutes, minutes, minutes, minutes, minutes)

	return query, []interface{}{start, end}, nil
}
