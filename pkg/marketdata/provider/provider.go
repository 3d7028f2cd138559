// Package provider fetches OHLCV series from upstream market data vendors.
package provider

import (
	"context"
	"time"

	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// Provider fetches bars for a ticker and date range.
type Provider interface {
	// FetchBars returns the OHLCV series for the given ticker, window and
	// interval. An empty series is a valid result; callers decide whether
	// that is fatal. The context cancels the upstream request.
	FetchBars(ctx context.Context, ticker string, start, end time.Time, interval types.Interval) (*types.Series, error)
}

// NewProvider creates a market data provider of the given type.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedProvider, "unsupported market data provider: %s", providerType)
	}
}
