package service

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// stubProvider serves a canned series and records the requested window.
type stubProvider struct {
	series *types.Series
	err    error

	lastStart time.Time
	lastEnd   time.Time
	calls     int
}

func (p *stubProvider) FetchBars(_ context.Context, _ string, start, end time.Time, _ types.Interval) (*types.Series, error) {
	p.calls++
	p.lastStart = start
	p.lastEnd = end

	if p.err != nil {
		return nil, p.err
	}

	return p.series, nil
}

// stubCache returns a fixed lookup result.
type stubCache struct {
	result optional.Option[*types.Series]
	err    error
	calls  int
}

func (c *stubCache) Lookup(_ context.Context, _ string, _ types.Interval, _, _ time.Time) (optional.Option[*types.Series], error) {
	c.calls++

	if c.err != nil {
		return optional.None[*types.Series](), c.err
	}

	return c.result, nil
}

func (c *stubCache) Store(_ context.Context, _ string, _ types.Interval, _ []types.MarketData) error {
	return nil
}

func (c *stubCache) Close() error { return nil }

type ServiceTestSuite struct {
	suite.Suite
	log *logger.Logger
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) SetupTest() {
	log, err := logger.NewDebugLogger()
	suite.Require().NoError(err)

	suite.log = log
	suite.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *ServiceTestSuite) newService(p *stubProvider, c *stubCache) *ChartService {
	svc := NewChartService(p, nil, suite.log)
	if c != nil {
		svc = NewChartService(p, c, suite.log)
	}

	svc.now = func() time.Time { return suite.now }

	return svc
}

func (suite *ServiceTestSuite) series(n int) *types.Series {
	bars := make([]types.MarketData, 0, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		price := 100.0 + float64(i)
		bars = append(bars, types.MarketData{
			Time:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 1000,
		})
	}

	return types.NewSeries(bars, time.UTC)
}

func (suite *ServiceTestSuite) request() ChartRequest {
	return ChartRequest{
		Ticker:     "AAPL",
		Interval:   types.IntervalOneDay,
		From:       time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
		ExitPrice:  optional.Some(110.0),
		Direction:  types.DirectionLong,
	}
}

func (suite *ServiceTestSuite) TestRenderChartSuccess() {
	p := &stubProvider{series: suite.series(10)}
	svc := suite.newService(p, nil)

	result, err := svc.RenderChart(context.Background(), suite.request())
	suite.Require().NoError(err)
	suite.NotEmpty(result.PNG)
	suite.Equal(1, p.calls)
}

func (suite *ServiceTestSuite) TestRenderChartEmptySeriesIsDataUnavailable() {
	p := &stubProvider{series: types.NewSeries(nil, time.UTC)}
	svc := suite.newService(p, nil)

	_, err := svc.RenderChart(context.Background(), suite.request())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *ServiceTestSuite) TestRenderChartProviderFailure() {
	p := &stubProvider{err: errors.New(errors.ErrCodeFetchFailed, "upstream exploded")}
	svc := suite.newService(p, nil)

	_, err := svc.RenderChart(context.Background(), suite.request())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFetchFailed))
}

func (suite *ServiceTestSuite) TestFetchWindowAppliesDailyPadding() {
	p := &stubProvider{series: suite.series(10)}
	svc := suite.newService(p, nil)

	req := suite.request()

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)

	suite.True(p.lastStart.Equal(req.From.Add(-30*24*time.Hour)))
	suite.True(p.lastEnd.Equal(req.To.Add(10*24*time.Hour)))
}

func (suite *ServiceTestSuite) TestFetchWindowClampsFutureEnd() {
	p := &stubProvider{series: suite.series(10)}
	svc := suite.newService(p, nil)

	req := suite.request()
	req.To = suite.now.AddDate(0, 2, 0)

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)
	suite.True(p.lastEnd.Equal(suite.now))
}

func (suite *ServiceTestSuite) TestFetchWindowFallsBackForFutureStart() {
	p := &stubProvider{series: suite.series(10)}
	svc := suite.newService(p, nil)

	req := suite.request()
	req.From = suite.now.AddDate(1, 0, 0)
	req.To = suite.now.AddDate(1, 0, 7)

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)

	suite.True(p.lastStart.Equal(suite.now.Add(-60*24*time.Hour)))
	suite.True(p.lastEnd.Equal(suite.now))
}

func (suite *ServiceTestSuite) TestDefaultWindowWhenDatesMissing() {
	p := &stubProvider{series: suite.series(10)}
	svc := suite.newService(p, nil)

	req := suite.request()
	req.From = time.Time{}
	req.To = time.Time{}

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)

	suite.True(p.lastEnd.Equal(suite.now))
	suite.True(p.lastStart.Before(suite.now))
}

func (suite *ServiceTestSuite) TestIntradayCacheHitSkipsProvider() {
	p := &stubProvider{series: suite.series(10)}
	c := &stubCache{result: optional.Some(suite.series(20))}
	svc := suite.newService(p, c)

	req := suite.request()
	req.Interval = types.IntervalFiveMinutes

	result, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)
	suite.NotEmpty(result.PNG)
	suite.Equal(1, c.calls)
	suite.Zero(p.calls)
}

func (suite *ServiceTestSuite) TestIntradayCacheMissFallsBack() {
	p := &stubProvider{series: suite.series(10)}
	c := &stubCache{result: optional.None[*types.Series]()}
	svc := suite.newService(p, c)

	req := suite.request()
	req.Interval = types.IntervalOneHour

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)
	suite.Equal(1, c.calls)
	suite.Equal(1, p.calls)
}

func (suite *ServiceTestSuite) TestCacheErrorFallsBackToProvider() {
	p := &stubProvider{series: suite.series(10)}
	c := &stubCache{err: errors.New(errors.ErrCodeQueryFailed, "cache broken")}
	svc := suite.newService(p, c)

	req := suite.request()
	req.Interval = types.IntervalFiveMinutes

	_, err := svc.RenderChart(context.Background(), req)
	suite.Require().NoError(err)
	suite.Equal(1, p.calls)
}

func (suite *ServiceTestSuite) TestDailyIntervalNeverConsultsCache() {
	p := &stubProvider{series: suite.series(10)}
	c := &stubCache{result: optional.Some(suite.series(20))}
	svc := suite.newService(p, c)

	_, err := svc.RenderChart(context.Background(), suite.request())
	suite.Require().NoError(err)
	suite.Zero(c.calls)
	suite.Equal(1, p.calls)
}
