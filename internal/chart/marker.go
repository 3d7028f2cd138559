package chart

import (
	"github.com/moznion/go-optional"

	"github.com/tradelens/chart-image/internal/render"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Marker placement tuning.
const (
	// markerOffsetFrac is the vertical clearance between a marker and its
	// candle, as a fraction of the series price range.
	markerOffsetFrac = 0.04
	// jitterStep is the horizontal fan-out distance between markers sharing
	// a bar position, in bar-index units.
	jitterStep = 0.15
	// markerSize is the glyph half-extent in pixels.
	markerSize = 7
	// markerEdgeWidth is the white contrast stroke around each glyph.
	markerEdgeWidth = 1
)

// MarkerSpec is a fully placed trade-leg marker, ready for the renderer.
type MarkerSpec struct {
	// Position is the bar index, fractional after jitter.
	Position float64
	// Price is the vertical coordinate, offset away from the candle.
	Price float64
	Shape render.MarkerShape
	Color string
}

// LegResult records the outcome of placing one leg: either a marker spec or
// the reason the leg was skipped. Skips never fail the overall render but
// stay observable for logging and tests.
type LegResult struct {
	Leg    types.TradeLeg
	Marker optional.Option[MarkerSpec]
	Skip   error
}

// Placed reports whether the leg produced a marker.
func (r LegResult) Placed() bool {
	return r.Marker.IsSome()
}

// markerLayout places trade legs onto series positions while avoiding
// overlap. It is created per render call and holds the per-position
// placement counters.
type markerLayout struct {
	series *types.Series
	offset float64
	placed map[int]int
}

func newMarkerLayout(series *types.Series) *markerLayout {
	_, _, span := series.PriceRange()

	return &markerLayout{
		series: series,
		offset: span * markerOffsetFrac,
		placed: make(map[int]int),
	}
}

// place resolves a single leg into a marker spec, or an error describing why
// the leg cannot be drawn.
func (l *markerLayout) place(leg types.TradeLeg) (MarkerSpec, error) {
	event, aware, err := ParseEventTime(leg.ExecutedAt)
	if err != nil {
		return MarkerSpec{}, err
	}

	idx, err := NearestIndex(l.series, event, aware)
	if err != nil {
		return MarkerSpec{}, err
	}

	if idx < 0 || idx >= l.series.Len() {
		return MarkerSpec{}, errors.Newf(errors.ErrCodeLegOutOfRange, "resolved position %d outside series of %d bars", idx, l.series.Len())
	}

	bar := l.series.Bars[idx]
	buySide := leg.Type.BuySide()

	// Markers sharing a bar fan outward: each one steps a further
	// jitterStep away from the candle center, buys to the left and
	// sells to the right, so offsets on one side are never equal.
	count := l.placed[idx]
	l.placed[idx] = count + 1

	jitter := jitterStep * float64(count+1)
	if buySide {
		jitter = -jitter
	}

	spec := MarkerSpec{
		Position: float64(idx) + jitter,
		Color:    legColor(leg.Type),
	}

	if buySide {
		spec.Shape = render.MarkerTriangleUp
		spec.Price = bar.Low - l.offset
	} else {
		spec.Shape = render.MarkerTriangleDown
		spec.Price = bar.High + l.offset
	}

	return spec, nil
}

// LayoutMarkers converts trade legs into placed marker specs. Each leg gets
// a LegResult; malformed legs are skipped without affecting the others.
func LayoutMarkers(series *types.Series, legs []types.TradeLeg) []LegResult {
	layout := newMarkerLayout(series)
	results := make([]LegResult, 0, len(legs))

	for _, leg := range legs {
		spec, err := layout.place(leg)
		if err != nil {
			results = append(results, LegResult{
				Leg:    leg,
				Marker: optional.None[MarkerSpec](),
				Skip:   errors.Wrapf(errors.ErrCodeMalformedLeg, err, "leg %s at %q skipped", leg.Type, leg.ExecutedAt),
			})

			continue
		}

		results = append(results, LegResult{
			Leg:    leg,
			Marker: optional.Some(spec),
		})
	}

	return results
}

// legColor maps a leg type to its marker color. Unrecognized types render
// neutral gray.
func legColor(t types.LegType) string {
	switch t {
	case types.LegTypeEntry:
		return colorUp
	case types.LegTypeAdd:
		return colorAdd
	case types.LegTypeTrim:
		return colorTrim
	case types.LegTypeExit:
		return colorDown
	default:
		return colorNeutral
	}
}

// renderMarker converts a placed spec into the renderer's marker type.
func renderMarker(spec MarkerSpec) render.Marker {
	return render.Marker{
		X:         spec.Position,
		Y:         spec.Price,
		Shape:     spec.Shape,
		Color:     spec.Color,
		Size:      markerSize,
		EdgeColor: colorEdge,
		EdgeWidth: markerEdgeWidth,
	}
}
