package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Direction is the side of the overall trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// ParseDirection validates a direction string from the API surface.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLong, DirectionShort:
		return Direction(s), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidDirection, "direction must be LONG or SHORT, got %q", s)
	}
}

// TradeContext carries everything about one trade needed to annotate a chart.
type TradeContext struct {
	Ticker     string
	Direction  Direction
	EntryPrice float64
	// ExitPrice is absent for trades that are still open.
	ExitPrice optional.Option[float64]
	Legs      []TradeLeg
}

// Closed reports whether the trade has a usable exit price. A present but
// zero exit price counts as open.
func (t *TradeContext) Closed() bool {
	return t.ExitPrice.IsSome() && t.ExitPrice.Unwrap() != 0
}

// Profitable reports whether the realized outcome is a gain. For LONG trades
// the exit must exceed the entry; for SHORT trades the entry must exceed the
// exit. Returns false for open trades.
func (t *TradeContext) Profitable() bool {
	if !t.Closed() {
		return false
	}

	entry := decimal.NewFromFloat(t.EntryPrice)
	exit := decimal.NewFromFloat(t.ExitPrice.Unwrap())

	if t.Direction == DirectionShort {
		return exit.LessThan(entry)
	}

	return exit.GreaterThan(entry)
}
