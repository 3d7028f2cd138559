package chart

import (
	"fmt"

	"github.com/tradelens/chart-image/internal/render"
	"github.com/tradelens/chart-image/internal/types"
)

// ReferenceLines builds the horizontal entry/exit price lines for a trade.
//
// The entry line is always present. The exit line appears only for closed
// trades (present, non-zero exit price) and its color encodes the realized
// outcome: green for a profitable exit, red otherwise.
func ReferenceLines(trade *types.TradeContext) []render.HLine {
	lines := []render.HLine{
		{
			Price:  trade.EntryPrice,
			Color:  colorUp,
			Dashed: true,
			Label:  fmt.Sprintf("Entry $%.2f", trade.EntryPrice),
		},
	}

	if !trade.Closed() {
		return lines
	}

	exit := trade.ExitPrice.Unwrap()

	color := colorDown
	if trade.Profitable() {
		color = colorUp
	}

	lines = append(lines, render.HLine{
		Price:  exit,
		Color:  color,
		Dashed: true,
		Label:  fmt.Sprintf("Exit $%.2f", exit),
	})

	return lines
}
