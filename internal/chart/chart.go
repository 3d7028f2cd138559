// Package chart composes annotated candlestick charts for trade reviews.
//
// A render call aligns a trade's execution events onto an OHLCV series,
// lays out non-overlapping leg markers, draws entry/exit reference lines
// colored by outcome, and produces a PNG. Every render is self-contained:
// no state is shared between calls and concurrent renders are safe.
package chart

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/render"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Generator renders annotated trade charts. The zero theme defaults to the
// app's dark theme.
type Generator struct {
	theme render.Theme
	log   *logger.Logger
}

// NewGenerator creates a chart generator with the default dark theme.
func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{
		theme: DarkTheme(),
		log:   log,
	}
}

// NewGeneratorWithTheme creates a chart generator with a custom theme.
func NewGeneratorWithTheme(log *logger.Logger, theme render.Theme) *Generator {
	return &Generator{
		theme: theme,
		log:   log,
	}
}

// Result is the outcome of one render call.
type Result struct {
	// PNG is the encoded chart image.
	PNG []byte
	// Legs records the per-leg placement outcomes, including skips.
	Legs []LegResult
}

// Skipped returns how many legs were dropped during placement.
func (r *Result) Skipped() int {
	count := 0

	for _, leg := range r.Legs {
		if !leg.Placed() {
			count++
		}
	}

	return count
}

// Generate renders the annotated chart for a trade over the given series.
//
// An empty series is the only fatal input condition. Individual legs that
// cannot be placed (unparseable timestamp, out-of-range position) are
// skipped and recorded in the result; they never abort the render.
func (g *Generator) Generate(series *types.Series, trade *types.TradeContext, interval types.Interval) (*Result, error) {
	if series.Empty() {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "no data available for %s", trade.Ticker)
	}

	fig, err := render.NewFigure(series, g.theme, true)
	if err != nil {
		return nil, err
	}

	defer fig.Close()

	for _, line := range ReferenceLines(trade) {
		fig.AddHLine(line)
	}

	legs := LayoutMarkers(series, trade.Legs)

	for _, leg := range legs {
		if leg.Placed() {
			fig.AddMarker(renderMarker(leg.Marker.Unwrap()))

			continue
		}

		if g.log != nil {
			g.log.Warn("skipping trade leg",
				zap.String("ticker", trade.Ticker),
				zap.String("leg_type", string(leg.Leg.Type)),
				zap.String("executed_at", leg.Leg.ExecutedAt),
				zap.Error(leg.Skip),
			)
		}
	}

	yMin, yMax := fig.YLim()
	fig.SetYLim(ExpandBounds(series, yMin, yMax))

	fig.SetTitle(fmt.Sprintf("%s - %s", trade.Ticker, interval.Label()))

	png, err := fig.EncodePNG()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to render chart", err)
	}

	return &Result{PNG: png, Legs: legs}, nil
}
