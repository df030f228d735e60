package datasource_test

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-gym/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-gym/internal/types"
	"github.com/rxtech-lab/argo-gym/mocks"
	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PrepareBarsTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ds   *mocks.MockDataSource
}

func TestPrepareBarsSuite(t *testing.T) {
	suite.Run(t, new(PrepareBarsTestSuite))
}

func (suite *PrepareBarsTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.ds = mocks.NewMockDataSource(suite.ctrl)
}

func (suite *PrepareBarsTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func rows(bars []types.MarketData, failAt int) func(func(types.MarketData, error) bool) {
	return func(yield func(types.MarketData, error) bool) {
		for i, bar := range bars {
			if i == failAt {
				yield(types.MarketData{}, errors.New(errors.ErrCodeQueryFailed, "scan failed"))

				return
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

func (suite *PrepareBarsTestSuite) bars() []types.MarketData {
	start := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	return []types.MarketData{
		{Symbol: "AAPL", Time: start, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Symbol: "MSFT", Time: start, Open: 20, High: 21, Low: 19, Close: 20.5, Volume: 200},
		{Symbol: "AAPL", Time: start.Add(time.Minute), Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 150},
	}
}

func (suite *PrepareBarsTestSuite) TestFiltersBySymbolAndReloadsEveryCall() {
	start := optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	end := optional.None[time.Time]()

	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil).Times(2)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil).Times(2)
	suite.ds.EXPECT().ReadAll(start, end).DoAndReturn(func(_, _ optional.Option[time.Time]) func(func(types.MarketData, error) bool) {
		return rows(suite.bars(), -1)
	}).Times(2)

	prepare := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{Symbol: "AAPL", Start: start, End: end})

	for i := 0; i < 2; i++ {
		bars, err := prepare()
		suite.Require().NoError(err)
		suite.Require().Len(bars, 2)
		suite.Equal(10.5, bars[0].Close)
		suite.Equal(11.0, bars[1].Close)
	}
}

func (suite *PrepareBarsTestSuite) TestEmptySymbolKeepsEverything() {
	suite.ds.EXPECT().Initialize("bars.csv").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)
	suite.ds.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(rows(suite.bars(), -1))

	bars, err := datasource.PrepareBars(suite.ds, "bars.csv", datasource.PrepareOptions{})()
	suite.Require().NoError(err)
	suite.Len(bars, 3)
}

func (suite *PrepareBarsTestSuite) TestInitializeError() {
	suite.ds.EXPECT().Initialize("missing.parquet").Return(errors.New(errors.ErrCodeDataNotFound, "data file not found"))

	bars, err := datasource.PrepareBars(suite.ds, "missing.parquet", datasource.PrepareOptions{Symbol: "AAPL"})()
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *PrepareBarsTestSuite) TestUnknownSymbol() {
	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)

	bars, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{Symbol: "TSLA"})()
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
	suite.Contains(err.Error(), "symbol TSLA not found")
}

func (suite *PrepareBarsTestSuite) TestFailsEarlyBelowMinBars() {
	start := optional.Some(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC))

	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL"}, nil)
	suite.ds.EXPECT().Count(start, optional.None[time.Time]()).Return(2, nil)

	bars, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{
		Symbol:  "AAPL",
		Start:   start,
		MinBars: 3,
	})()
	suite.Nil(bars)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *PrepareBarsTestSuite) TestResampledRangeEndsAtLastBar() {
	last := suite.bars()[2]

	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)
	suite.ds.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	suite.ds.EXPECT().ReadLastData("AAPL").Return(last, nil)
	suite.ds.EXPECT().
		GetRange(time.Time{}, last.Time, optional.Some(datasource.Interval5m)).
		Return(suite.bars(), nil)

	bars, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{
		Symbol:   "AAPL",
		Interval: optional.Some(datasource.Interval5m),
		MinBars:  3,
	})()
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)

	for _, bar := range bars {
		suite.Equal("AAPL", bar.Symbol)
	}
}

func (suite *PrepareBarsTestSuite) TestResampledRangeUsesLatestSymbol() {
	bars := suite.bars()
	late := bars[1]
	late.Time = late.Time.Add(time.Hour)

	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)
	suite.ds.EXPECT().ReadLastData("AAPL").Return(bars[2], nil)
	suite.ds.EXPECT().ReadLastData("MSFT").Return(late, nil)
	suite.ds.EXPECT().GetRange(time.Time{}, late.Time, gomock.Any()).Return(bars, nil)

	result, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{
		Interval: optional.Some(datasource.Interval1h),
	})()
	suite.Require().NoError(err)
	suite.Len(result, 3)
}

func (suite *PrepareBarsTestSuite) TestReadError() {
	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)
	suite.ds.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(rows(suite.bars(), 1))

	bars, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{})()
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}

func (suite *PrepareBarsTestSuite) TestNoBarsInRange() {
	suite.ds.EXPECT().Initialize("bars.parquet").Return(nil)
	suite.ds.EXPECT().Symbols().Return([]string{"AAPL", "MSFT"}, nil)
	suite.ds.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(rows(nil, -1))

	bars, err := datasource.PrepareBars(suite.ds, "bars.parquet", datasource.PrepareOptions{})()
	suite.Nil(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}
