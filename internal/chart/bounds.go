package chart

import "github.com/tradelens/chart-image/internal/types"

// boundsPadFrac is the guaranteed clearance above and below the series
// extent, as a fraction of the price range. Large enough to keep offset
// markers inside the visible plot area.
const boundsPadFrac = 0.08

// ExpandBounds widens a default vertical axis range so that every marker,
// including its vertical offset, stays visible. The result is the union of
// the given range and the padded series extent; the range never shrinks.
func ExpandBounds(series *types.Series, yMin, yMax float64) (float64, float64) {
	low, high, span := series.PriceRange()

	pad := span * boundsPadFrac

	if padded := low - pad; padded < yMin {
		yMin = padded
	}

	if padded := high + pad; padded > yMax {
		yMax = padded
	}

	return yMin, yMax
}
