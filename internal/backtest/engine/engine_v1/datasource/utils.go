package datasource

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-gym/pkg/errors"
)

func getIntervalMinutes(interval Interval) (int, error) {
	var intervalMinutes int

	switch interval {
	case Interval1m:
		intervalMinutes = 1
	case Interval5m:
		intervalMinutes = 5
	case Interval15m:
		intervalMinutes = 15
	case Interval30m:
		intervalMinutes = 30
	case Interval1h:
		intervalMinutes = 60
	case Interval4h:
		intervalMinutes = 240
	case Interval6h:
		intervalMinutes = 360
	case Interval8h:
		intervalMinutes = 480
	case Interval12h:
		intervalMinutes = 720
	case Interval1d:
		intervalMinutes = 1440
	case Interval1w:
		intervalMinutes = 10080
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval: %s", interval)
	}

	return intervalMinutes, nil
}

// ParseInterval returns the Interval named by value.
func ParseInterval(value string) (Interval, error) {
	interval := Interval(value)
	if _, err := getIntervalMinutes(interval); err != nil {
		return "", err
	}

	return interval, nil
}

// tableFunction returns the DuckDB table function reading the file at path.
func tableFunction(path string) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", quoted), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s, header = true)", quoted), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file: %s", path)
	}
}
