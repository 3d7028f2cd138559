// Package service wires market data retrieval to chart generation.
package service

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/tradelens/chart-image/internal/chart"
	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
	"github.com/tradelens/chart-image/pkg/marketdata/cache"
	"github.com/tradelens/chart-image/pkg/marketdata/provider"
)

// defaultLookback is how far back to chart when the request has no usable
// entry date.
const defaultLookback = 60 * 24 * time.Hour

// ChartRequest is a fully parsed and validated chart rendering request.
type ChartRequest struct {
	Ticker   string
	Interval types.Interval
	// From is the trade entry date. Zero means "recent history".
	From time.Time
	// To is the trade exit date. Zero means now.
	To         time.Time
	EntryPrice float64
	ExitPrice  optional.Option[float64]
	Direction  types.Direction
	Legs       []types.TradeLeg
}

// ChartService renders trade charts from upstream market data. The cache is
// optional: a nil cache simply sends every request to the provider.
type ChartService struct {
	provider  provider.Provider
	cache     cache.BarCache
	generator *chart.Generator
	log       *logger.Logger

	// now is injectable for window-clamping tests.
	now func() time.Time
}

// NewChartService creates a chart service. cache may be nil.
func NewChartService(p provider.Provider, c cache.BarCache, log *logger.Logger) *ChartService {
	return &ChartService{
		provider:  p,
		cache:     c,
		generator: chart.NewGenerator(log),
		log:       log,
		now:       time.Now,
	}
}

// RenderChart fetches the OHLCV series for the request and renders the
// annotated chart.
func (s *ChartService) RenderChart(ctx context.Context, req ChartRequest) (*chart.Result, error) {
	series, err := s.fetchSeries(ctx, req)
	if err != nil {
		return nil, err
	}

	if series.Empty() {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "no data available for %s", req.Ticker)
	}

	trade := &types.TradeContext{
		Ticker:     req.Ticker,
		Direction:  req.Direction,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Legs:       req.Legs,
	}

	result, err := s.generator.Generate(series, trade, req.Interval)
	if err != nil {
		return nil, err
	}

	s.log.Info("chart rendered",
		zap.String("ticker", req.Ticker),
		zap.String("interval", string(req.Interval)),
		zap.Int("bars", series.Len()),
		zap.Int("legs", len(req.Legs)),
		zap.Int("skipped", result.Skipped()),
	)

	return result, nil
}

// fetchSeries retrieves bars, consulting the intraday cache first when one
// is configured.
func (s *ChartService) fetchSeries(ctx context.Context, req ChartRequest) (*types.Series, error) {
	entry, exit := s.tradeWindow(req)

	if s.cache != nil && req.Interval.Intraday() {
		before, after := req.Interval.CachePadding()

		cached, err := s.cache.Lookup(ctx, req.Ticker, req.Interval, entry.Add(-before), exit.Add(after))
		if err != nil {
			// A broken cache degrades to a provider fetch.
			s.log.Warn("cache lookup failed, falling back to provider",
				zap.String("ticker", req.Ticker),
				zap.Error(err),
			)
		} else if cached.IsSome() && !cached.Unwrap().Empty() {
			return cached.Unwrap(), nil
		}
	}

	start, end := s.fetchWindow(req.Interval, entry, exit)

	series, err := s.provider.FetchBars(ctx, req.Ticker, start, end, req.Interval)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "upstream fetch failed for %s", req.Ticker)
	}

	return series, nil
}

// tradeWindow resolves the raw entry/exit dates of the request, applying
// defaults for missing values.
func (s *ChartService) tradeWindow(req ChartRequest) (entry time.Time, exit time.Time) {
	now := s.now()

	entry = req.From
	if entry.IsZero() {
		entry = now.Add(-defaultLookback)
	}

	exit = req.To
	if exit.IsZero() {
		exit = now
	}

	return entry, exit
}

// fetchWindow widens the trade window by the interval's display padding so
// the chart shows setup and follow-through context, then clamps the result
// so no future data is requested.
func (s *ChartService) fetchWindow(interval types.Interval, entry, exit time.Time) (start time.Time, end time.Time) {
	before, after := interval.DisplayPadding()

	start = entry.Add(-before)
	end = exit.Add(after)

	now := s.now()

	if end.After(now) {
		end = now
	}

	// A window entirely in the future falls back to recent history.
	if start.After(now) {
		start = now.Add(-interval.FallbackWindow())
	}

	return start, end
}
