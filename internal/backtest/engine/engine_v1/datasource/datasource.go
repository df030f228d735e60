package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

type DataSource interface {
	// Initialize loads the bar file at path. Parquet and CSV files are supported.
	Initialize(path string) error
	// ReadAll reads all the data from the data source in time order and yields it to the caller
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool)
	// GetRange reads a range of data, optionally resampled to interval
	GetRange(start time.Time, end time.Time, interval optional.Option[Interval]) ([]types.MarketData, error)
	// ReadLastData reads the last data from the data source for a specific symbol
	ReadLastData(symbol string) (types.MarketData, error)
	// Count returns the number of rows in the data source
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Symbols returns the distinct symbols in the data source
	Symbols() ([]string, error)
	// Close closes the data source and releases any resources
	Close() error
}
