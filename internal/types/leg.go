package types

import (
	"encoding/json"

	"github.com/tradelens/chart-image/pkg/errors"
)

// LegType identifies one kind of execution event within a trade.
type LegType string

const (
	LegTypeEntry LegType = "ENTRY"
	LegTypeAdd   LegType = "ADD"
	LegTypeTrim  LegType = "TRIM"
	LegTypeExit  LegType = "EXIT"
)

// BuySide reports whether the leg increases the position. Unrecognized leg
// types are treated as sell-side.
func (t LegType) BuySide() bool {
	return t == LegTypeEntry || t == LegTypeAdd
}

// Known reports whether the leg type is one of the four recognized values.
func (t LegType) Known() bool {
	switch t {
	case LegTypeEntry, LegTypeAdd, LegTypeTrim, LegTypeExit:
		return true
	default:
		return false
	}
}

// TradeLeg is a single execution event as received from the caller.
// ExecutedAt is kept as the raw string: timestamp parsing and timezone
// reconciliation happen against a concrete series at render time, and a
// malformed value must only drop this leg, never the whole request.
type TradeLeg struct {
	Type       LegType `json:"leg_type"`
	ExecutedAt string  `json:"executed_at"`
	Price      float64 `json:"price"`
}

// ParseLegs decodes a JSON-encoded leg list. Legs with an unknown type are
// kept (they degrade to a default visual treatment later); legs missing an
// execution timestamp are kept too and skipped during placement.
func ParseLegs(data string) ([]TradeLeg, error) {
	if data == "" {
		return nil, nil
	}

	var legs []TradeLeg
	if err := json.Unmarshal([]byte(data), &legs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLegList, "legs must be a JSON array", err)
	}

	return legs, nil
}
