package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// binancePageSize is the maximum number of klines Binance returns per call.
const binancePageSize = 500

// BinanceClient fetches klines from the public Binance API. No credentials
// are required for historical market data.
type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient creates a binance-backed provider.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// FetchBars implements Provider. Pagination follows the Binance API limit of
// 500 klines per request, advancing past the close time of the last kline.
func (c *BinanceClient) FetchBars(ctx context.Context, ticker string, start, end time.Time, interval types.Interval) (*types.Series, error) {
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	var bars []types.MarketData

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval(interval.BinanceInterval()).
			StartTime(startMillis).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch klines for %s", ticker)
		}

		bars = append(bars, convertKlines(klines)...)

		if len(klines) < binancePageSize {
			break
		}

		// Advance past the close time of the last kline to avoid duplicates.
		startMillis = klines[len(klines)-1].CloseTime + 1
		if startMillis >= endMillis {
			break
		}
	}

	return types.NewSeries(bars, time.UTC), nil
}

// convertKlines maps Binance kline rows onto OHLCV bars, using the kline
// open time as the bar timestamp.
func convertKlines(klines []*binance.Kline) []types.MarketData {
	bars := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		bars = append(bars, types.MarketData{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return bars
}
