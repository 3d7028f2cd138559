package chart

import "github.com/tradelens/chart-image/internal/render"

// Palette shared with the web app's dark theme.
const (
	colorUp      = "#10b981"
	colorDown    = "#ef4444"
	colorAdd     = "#3b82f6"
	colorTrim    = "#f59e0b"
	colorNeutral = "#71717a"

	colorBackground = "#18181b"
	colorGrid       = "#27272a"
	colorLabel      = "#a1a1aa"
	colorEdge       = "#ffffff"
)

// Default output dimensions, in pixels.
const (
	defaultWidth  = 1200
	defaultHeight = 400
)

// DarkTheme returns the figure theme used for all rendered charts.
func DarkTheme() render.Theme {
	return render.Theme{
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: colorBackground,
		Grid:       colorGrid,
		Label:      colorLabel,
		CandleUp:   colorUp,
		CandleDown: colorDown,
		VolumeUp:   colorUp + "50",
		VolumeDown: colorDown + "50",
	}
}
