// Package cache provides an optional local store of intraday bars.
//
// The HTTP service consults the cache before hitting the upstream provider
// for intraday intervals; the warm command populates it ahead of time. The
// whole service functions with the cache absent.
package cache

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tradelens/chart-image/internal/types"
)

// BarCache stores and retrieves OHLCV bars by ticker and interval.
type BarCache interface {
	// Lookup returns the cached series covering the given window, or None
	// when the cache holds no bars for it. A miss is not an error.
	Lookup(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) (optional.Option[*types.Series], error)
	// Store persists bars for a ticker and interval, replacing any cached
	// bars at the same timestamps.
	Store(ctx context.Context, ticker string, interval types.Interval, bars []types.MarketData) error
	// Close releases the underlying store.
	Close() error
}
