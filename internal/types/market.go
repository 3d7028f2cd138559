package types

import "time"

// MarketData represents a single OHLCV bar.
type MarketData struct {
	Time   time.Time `json:"time" csv:"time"`
	Open   float64   `json:"open" csv:"open"`
	High   float64   `json:"high" csv:"high"`
	Low    float64   `json:"low" csv:"low"`
	Close  float64   `json:"close" csv:"close"`
	Volume float64   `json:"volume" csv:"volume"`
}

// Series is a time-indexed, chronologically ordered sequence of OHLCV bars.
//
// Timezone describes the timezone awareness of the index: when set, bar
// times are instants in that zone; when nil the index is timezone-naive and
// bar times are plain clock readings stored in a UTC container.
type Series struct {
	Bars     []MarketData
	Timezone *time.Location
}

// NewSeries creates a timezone-aware series in the given location.
func NewSeries(bars []MarketData, tz *time.Location) *Series {
	return &Series{Bars: bars, Timezone: tz}
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Bars)
}

// Empty reports whether the series holds no bars.
func (s *Series) Empty() bool {
	return s.Len() == 0
}

// PriceRange returns the total vertical extent of the series,
// max(High) - min(Low) across all bars, along with the two extremes.
func (s *Series) PriceRange() (low float64, high float64, span float64) {
	if s.Empty() {
		return 0, 0, 0
	}

	low = s.Bars[0].Low
	high = s.Bars[0].High

	for _, bar := range s.Bars[1:] {
		if bar.Low < low {
			low = bar.Low
		}

		if bar.High > high {
			high = bar.High
		}
	}

	return low, high, high - low
}

// MaxVolume returns the largest bar volume in the series.
func (s *Series) MaxVolume() float64 {
	max := 0.0
	for _, bar := range s.Bars {
		if bar.Volume > max {
			max = bar.Volume
		}
	}

	return max
}
