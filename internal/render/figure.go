// Package render draws candlestick charts to raster images.
//
// A Figure accumulates drawing state (base series, reference lines, markers,
// title, axis limits) and rasterizes everything in one pass when the image is
// encoded. Deferring the actual drawing keeps late axis adjustments cheap:
// callers may change the y-range after annotations are added and the final
// image stays consistent.
package render

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Theme holds the visual configuration of a figure.
type Theme struct {
	Width  int
	Height int

	Background string
	Grid       string
	Label      string

	CandleUp   string
	CandleDown string
	VolumeUp   string
	VolumeDown string
}

// MarkerShape selects the glyph drawn for a marker.
type MarkerShape string

const (
	MarkerTriangleUp   MarkerShape = "triangle-up"
	MarkerTriangleDown MarkerShape = "triangle-down"
)

// HLine is a horizontal reference line at a fixed price level.
type HLine struct {
	Price  float64
	Color  string
	Dashed bool
	Label  string
}

// Marker is a single glyph at a fractional bar position.
type Marker struct {
	// X is a bar index; fractional values land between bars.
	X float64
	// Y is a price coordinate.
	Y         float64
	Shape     MarkerShape
	Color     string
	Size      float64
	EdgeColor string
	EdgeWidth float64
}

// Figure is a pending chart. It is scoped to a single render call and must
// be released with Close on every exit path.
type Figure struct {
	series     *types.Series
	theme      Theme
	showVolume bool

	hlines  []HLine
	markers []Marker
	title   string

	yMin float64
	yMax float64

	closed bool
}

// defaultPad is the fraction of the price range added above and below the
// series extent when establishing the default y-range.
const defaultPad = 0.03

// NewFigure creates a figure for the given series. The default vertical
// range covers the series extent plus a small pad on both sides.
func NewFigure(series *types.Series, theme Theme, showVolume bool) (*Figure, error) {
	if series.Empty() {
		return nil, errors.New(errors.ErrCodeDataUnavailable, "cannot render an empty series")
	}

	if theme.Width <= 0 || theme.Height <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid figure dimensions %dx%d", theme.Width, theme.Height)
	}

	low, high, span := series.PriceRange()
	if span == 0 {
		// Flat series still needs a non-degenerate axis.
		span = math.Max(math.Abs(high), 1)
	}

	return &Figure{
		series:     series,
		theme:      theme,
		showVolume: showVolume,
		yMin:       low - span*defaultPad,
		yMax:       high + span*defaultPad,
	}, nil
}

// YLim returns the current vertical axis range.
func (f *Figure) YLim() (float64, float64) {
	return f.yMin, f.yMax
}

// SetYLim replaces the vertical axis range.
func (f *Figure) SetYLim(min, max float64) {
	if min >= max {
		return
	}

	f.yMin = min
	f.yMax = max
}

// AddHLine queues a horizontal reference line.
func (f *Figure) AddHLine(line HLine) {
	f.hlines = append(f.hlines, line)
}

// AddMarker queues a marker glyph.
func (f *Figure) AddMarker(marker Marker) {
	f.markers = append(f.markers, marker)
}

// SetTitle sets the chart title drawn at the top left.
func (f *Figure) SetTitle(title string) {
	f.title = title
}

// Close releases the figure. Encoding after Close fails.
func (f *Figure) Close() {
	f.closed = true
	f.series = nil
	f.hlines = nil
	f.markers = nil
}

// Pane geometry constants, in pixels.
const (
	marginLeft   = 12.0
	marginRight  = 64.0
	marginTop    = 30.0
	marginBottom = 24.0
	paneGap      = 4.0
)

// EncodePNG rasterizes the figure and returns the PNG bytes.
func (f *Figure) EncodePNG() ([]byte, error) {
	if f.closed {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "figure already closed")
	}

	width := float64(f.theme.Width)
	height := float64(f.theme.Height)

	plotLeft := marginLeft
	plotRight := width - marginRight
	plotTop := marginTop
	plotBottom := height - marginBottom
	plotW := plotRight - plotLeft

	priceBottom := plotBottom
	volumeTop := plotBottom

	if f.showVolume {
		volumeH := (plotBottom - plotTop) * 0.2
		priceBottom = plotBottom - volumeH - paneGap
		volumeTop = plotBottom - volumeH
	}

	priceH := priceBottom - plotTop

	n := f.series.Len()
	slot := plotW / float64(n)

	xAt := func(i float64) float64 {
		return plotLeft + (i+0.5)*slot
	}
	yAt := func(price float64) float64 {
		return plotTop + (f.yMax-price)/(f.yMax-f.yMin)*priceH
	}

	dc := gg.NewContext(f.theme.Width, f.theme.Height)

	dc.SetHexColor(f.theme.Background)
	dc.Clear()

	f.drawGrid(dc, plotLeft, plotRight, plotTop, priceBottom, yAt)

	if f.showVolume {
		f.drawVolume(dc, volumeTop, plotBottom, slot, xAt)
	}

	f.drawCandles(dc, slot, xAt, yAt)
	f.drawHLines(dc, plotLeft, plotRight, yAt)
	f.drawMarkers(dc, xAt, yAt)
	f.drawXAxis(dc, priceBottom, plotBottom, xAt)

	if f.title != "" {
		dc.SetHexColor(f.theme.Label)
		dc.DrawString(f.title, plotLeft+2, marginTop-10)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode PNG", err)
	}

	return buf.Bytes(), nil
}

// drawGrid paints horizontal gridlines with y-axis labels on the right.
func (f *Figure) drawGrid(dc *gg.Context, left, right, top, bottom float64, yAt func(float64) float64) {
	const ticks = 5

	step := (f.yMax - f.yMin) / float64(ticks)

	dc.SetLineWidth(0.5)

	for i := 0; i <= ticks; i++ {
		price := f.yMin + step*float64(i)
		y := yAt(price)

		if y < top-0.5 || y > bottom+0.5 {
			continue
		}

		dc.SetHexColor(f.theme.Grid)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()

		dc.SetHexColor(f.theme.Label)
		dc.DrawStringAnchored(formatPrice(price), right+4, y, 0, 0.35)
	}
}

// drawVolume paints the volume pane bars.
func (f *Figure) drawVolume(dc *gg.Context, top, bottom, slot float64, xAt func(float64) float64) {
	maxVolume := f.series.MaxVolume()
	if maxVolume <= 0 {
		return
	}

	paneH := bottom - top
	barW := slot * 0.7

	for i, bar := range f.series.Bars {
		h := bar.Volume / maxVolume * paneH
		if h <= 0 {
			continue
		}

		color := f.theme.VolumeUp
		if bar.Close < bar.Open {
			color = f.theme.VolumeDown
		}

		x := xAt(float64(i))
		dc.SetHexColor(color)
		dc.DrawRectangle(x-barW/2, bottom-h, barW, h)
		dc.Fill()
	}
}

// drawCandles paints the wick and body of every bar.
func (f *Figure) drawCandles(dc *gg.Context, slot float64, xAt func(float64) float64, yAt func(float64) float64) {
	bodyW := slot * 0.7
	if bodyW < 1 {
		bodyW = 1
	}

	for i, bar := range f.series.Bars {
		color := f.theme.CandleUp
		if bar.Close < bar.Open {
			color = f.theme.CandleDown
		}

		x := xAt(float64(i))

		dc.SetHexColor(color)
		dc.SetLineWidth(1)
		dc.DrawLine(x, yAt(bar.High), x, yAt(bar.Low))
		dc.Stroke()

		bodyTop := yAt(math.Max(bar.Open, bar.Close))
		bodyBottom := yAt(math.Min(bar.Open, bar.Close))

		bodyH := bodyBottom - bodyTop
		if bodyH < 1 {
			bodyH = 1
		}

		dc.DrawRectangle(x-bodyW/2, bodyTop, bodyW, bodyH)
		dc.Fill()
	}
}

// drawHLines paints queued reference lines with their right-edge labels.
func (f *Figure) drawHLines(dc *gg.Context, left, right float64, yAt func(float64) float64) {
	for _, line := range f.hlines {
		if line.Price < f.yMin || line.Price > f.yMax {
			continue
		}

		y := yAt(line.Price)

		dc.SetHexColor(line.Color)
		dc.SetLineWidth(1)

		if line.Dashed {
			dc.SetDash(6, 4)
		}

		dc.DrawLine(left, y, right, y)
		dc.Stroke()
		dc.SetDash()

		if line.Label != "" {
			dc.DrawStringAnchored(line.Label, right-4, y-6, 1, 0.35)
		}
	}
}

// drawMarkers paints queued marker glyphs above the candles.
func (f *Figure) drawMarkers(dc *gg.Context, xAt func(float64) float64, yAt func(float64) float64) {
	for _, m := range f.markers {
		x := xAt(m.X)
		y := yAt(m.Y)
		s := m.Size

		switch m.Shape {
		case MarkerTriangleDown:
			dc.MoveTo(x, y+s)
			dc.LineTo(x-s, y-s)
			dc.LineTo(x+s, y-s)
		default:
			dc.MoveTo(x, y-s)
			dc.LineTo(x-s, y+s)
			dc.LineTo(x+s, y+s)
		}

		dc.ClosePath()

		dc.SetHexColor(m.Color)
		dc.FillPreserve()

		if m.EdgeWidth > 0 {
			dc.SetHexColor(m.EdgeColor)
			dc.SetLineWidth(m.EdgeWidth)
			dc.Stroke()
		} else {
			dc.ClearPath()
		}
	}
}

// drawXAxis paints a handful of time labels under the plot.
func (f *Figure) drawXAxis(dc *gg.Context, priceBottom, plotBottom float64, xAt func(float64) float64) {
	n := f.series.Len()

	labels := 6
	if n < labels {
		labels = n
	}

	if labels < 2 {
		return
	}

	span := f.series.Bars[n-1].Time.Sub(f.series.Bars[0].Time)

	layout := "01-02"
	if span < 72*time.Hour {
		layout = "15:04"
	}

	dc.SetHexColor(f.theme.Label)

	stride := float64(n-1) / float64(labels-1)
	for i := 0; i < labels; i++ {
		idx := int(math.Round(stride * float64(i)))
		if idx >= n {
			idx = n - 1
		}

		x := xAt(float64(idx))
		dc.DrawStringAnchored(f.series.Bars[idx].Time.Format(layout), x, plotBottom+12, 0.5, 0.35)
	}
}

func formatPrice(price float64) string {
	if math.Abs(price) >= 1000 {
		return fmt.Sprintf("%.0f", price)
	}

	return fmt.Sprintf("%.2f", price)
}
