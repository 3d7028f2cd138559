package types

import (
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Interval is the bar size of a chart.
type Interval string

const (
	IntervalFiveMinutes Interval = "5m"
	IntervalOneHour     Interval = "1h"
	IntervalOneDay      Interval = "1d"
)

// ParseInterval validates an interval string from the API surface.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalFiveMinutes, IntervalOneHour, IntervalOneDay:
		return Interval(s), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval: %q", s)
	}
}

// Label returns the human readable chart title label for the interval.
func (i Interval) Label() string {
	switch i {
	case IntervalFiveMinutes:
		return "5 Min"
	case IntervalOneHour:
		return "Hourly"
	case IntervalOneDay:
		return "Daily"
	default:
		return string(i)
	}
}

// Intraday reports whether the interval is eligible for the bar cache.
func (i Interval) Intraday() bool {
	return i == IntervalFiveMinutes || i == IntervalOneHour
}

// Duration returns the bar width as a time.Duration.
func (i Interval) Duration() time.Duration {
	switch i {
	case IntervalFiveMinutes:
		return 5 * time.Minute
	case IntervalOneHour:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// DisplayPadding returns how far the fetch window extends before the entry
// and after the exit so the rendered chart shows setup and follow-through
// context around the trade.
func (i Interval) DisplayPadding() (before time.Duration, after time.Duration) {
	switch i {
	case IntervalOneDay:
		return 30 * 24 * time.Hour, 10 * 24 * time.Hour
	case IntervalOneHour:
		return 5 * 24 * time.Hour, 3 * 24 * time.Hour
	default: // 5m
		return 4 * time.Hour, 2 * time.Hour
	}
}

// CachePadding returns the window extension used when consulting the
// intraday bar cache. Must stay in sync with whatever populated the cache.
func (i Interval) CachePadding() (before time.Duration, after time.Duration) {
	switch i {
	case IntervalFiveMinutes:
		return 24 * time.Hour, 2 * time.Hour
	case IntervalOneHour:
		return 48 * time.Hour, 48 * time.Hour
	default:
		return 0, 0
	}
}

// FallbackWindow returns how far back from now to fetch when the requested
// range lies entirely in the future.
func (i Interval) FallbackWindow() time.Duration {
	switch i {
	case IntervalOneDay:
		return 60 * 24 * time.Hour
	case IntervalOneHour:
		return 10 * 24 * time.Hour
	default:
		return 3 * 24 * time.Hour
	}
}

// Multiplier returns the polygon aggregate multiplier for the interval.
func (i Interval) Multiplier() int {
	switch i {
	case IntervalFiveMinutes:
		return 5
	default:
		return 1
	}
}

// Timespan returns the polygon aggregate timespan for the interval.
func (i Interval) Timespan() models.Timespan {
	switch i {
	case IntervalFiveMinutes:
		return models.Minute
	case IntervalOneHour:
		return models.Hour
	default:
		return models.Day
	}
}

// BinanceInterval returns the kline interval string used by the Binance API.
func (i Interval) BinanceInterval() string {
	switch i {
	case IntervalFiveMinutes:
		return "5m"
	case IntervalOneHour:
		return "1h"
	default:
		return "1d"
	}
}
