package chart

import (
	"sort"
	"time"

	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// Layouts accepted for leg timestamps. Layouts without a zone designator
// produce a timezone-naive event.
var eventTimeLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", true},
}

// ParseEventTime parses a leg execution timestamp. The returned flag reports
// whether the value carried timezone information.
func ParseEventTime(value string) (t time.Time, aware bool, err error) {
	if value == "" {
		return time.Time{}, false, errors.New(errors.ErrCodeLegTimestamp, "empty execution timestamp")
	}

	for _, candidate := range eventTimeLayouts {
		parsed, parseErr := time.Parse(candidate.layout, value)
		if parseErr == nil {
			return parsed, !candidate.naive, nil
		}
	}

	return time.Time{}, false, errors.Newf(errors.ErrCodeLegTimestamp, "unparseable execution timestamp: %q", value)
}

// NearestIndex maps an event timestamp onto the position of the closest bar
// in the series, ties broken toward the earlier bar.
//
// The event's timezone awareness is reconciled with the series before any
// comparison:
//   - aware series, naive event: the event clock is assumed UTC, then
//     converted into the series zone;
//   - aware series, aware event: the event instant is converted into the
//     series zone;
//   - naive series: any zone on the event is stripped and its clock reading
//     compared directly against the series clock.
func NearestIndex(series *types.Series, event time.Time, eventAware bool) (int, error) {
	if series.Empty() {
		return 0, errors.New(errors.ErrCodeDataUnavailable, "cannot align against an empty series")
	}

	target := reconcile(series, event, eventAware)

	bars := series.Bars
	n := len(bars)

	// First bar at or after the target.
	pos := sort.Search(n, func(i int) bool {
		return !bars[i].Time.Before(target)
	})

	if pos == 0 {
		return 0, nil
	}

	if pos == n {
		return n - 1, nil
	}

	beforeGap := target.Sub(bars[pos-1].Time)
	afterGap := bars[pos].Time.Sub(target)

	// Ties go to the earlier bar.
	if beforeGap <= afterGap {
		return pos - 1, nil
	}

	return pos, nil
}

// reconcile normalizes the event timestamp into the series' frame of
// reference so that instants (aware series) or clock readings (naive series)
// compare correctly.
func reconcile(series *types.Series, event time.Time, eventAware bool) time.Time {
	if series.Timezone != nil {
		if !eventAware {
			// Naive events are assumed to be UTC clock readings.
			event = withZone(event, time.UTC)
		}

		return event.In(series.Timezone)
	}

	// Naive series: strip the event zone, keeping its clock reading. Bars of
	// a naive series live in a UTC container, so rebuild the event there.
	return withZone(event, time.UTC)
}

// withZone reinterprets the clock fields of t in the given location without
// converting the instant.
func withZone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
