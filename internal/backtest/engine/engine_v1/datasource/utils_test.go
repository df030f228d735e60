package datasource

import (
	"testing"

	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DatasourceUtilsTestSuite struct {
	suite.Suite
}

func TestDatasourceUtilsSuite(t *testing.T) {
	suite.Run(t, new(DatasourceUtilsTestSuite))
}

func (suite *DatasourceUtilsTestSuite) TestGetIntervalMinutes() {
	tests := []struct {
		interval        Interval
		expectedMinutes int
	}{
		{Interval1m, 1},
		{Interval5m, 5},
		{Interval15m, 15},
		{Interval30m, 30},
		{Interval1h, 60},
		{Interval4h, 240},
		{Interval6h, 360},
		{Interval8h, 480},
		{Interval12h, 720},
		{Interval1d, 1440},
		{Interval1w, 10080},
	}

	for _, tc := range tests {
		suite.Run(string(tc.interval), func() {
			minutes, err := getIntervalMinutes(tc.interval)
			suite.NoError(err)
			suite.Equal(tc.expectedMinutes, minutes)
		})
	}
}

func (suite *DatasourceUtilsTestSuite) TestGetIntervalMinutesUnsupportedInterval() {
	minutes, err := getIntervalMinutes(Interval("invalid"))

	suite.Error(err)
	suite.Equal(0, minutes)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	suite.Contains(err.Error(), "unsupported interval")
	suite.Contains(err.Error(), "invalid")
}

func (suite *DatasourceUtilsTestSuite) TestTableFunction() {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"parquet", "/data/aapl.parquet", "read_parquet('/data/aapl.parquet')"},
		{"upper case extension", "/data/AAPL.PARQUET", "read_parquet('/data/AAPL.PARQUET')"},
		{"csv", "bars.csv", "read_csv_auto('bars.csv', header = true)"},
		{"quote escaped", "/data/o'neil.csv", "read_csv_auto('/data/o''neil.csv', header = true)"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			fn, err := tableFunction(tc.path)
			suite.NoError(err)
			suite.Equal(tc.expected, fn)
		})
	}
}

func (suite *DatasourceUtilsTestSuite) TestTableFunctionUnsupportedFile() {
	_, err := tableFunction("/data/bars.json")

	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *DatasourceUtilsTestSuite) TestParseInterval() {
	interval, err := ParseInterval("15m")
	suite.Require().NoError(err)
	suite.Equal(Interval15m, interval)

	_, err = ParseInterval("2m")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
