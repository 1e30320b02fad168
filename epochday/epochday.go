// Package epochday defines the integer date representation used throughout
// calcache.
//
// A Day counts calendar days since 2000-01-01 (the epoch of the originating
// schema), so all calendar arithmetic happens on plain int32 values. Two
// sentinel values, DistantPast and DistantFuture, stand in for dates that
// saturated past a calendar's boundaries.
package epochday

import (
	"math"
	"time"
)

// Day is a date expressed as a signed day count since 2000-01-01.
type Day int32

// Sentinel dates returned by saturating calendar arithmetic.
const (
	DistantPast   Day = math.MinInt32
	DistantFuture Day = math.MaxInt32
)

// epoch is the reference date all Day values are relative to.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// epochUnixDays is the day offset of the epoch from 1970-01-01.
const epochUnixDays = 10957

// layout is the canonical textual form of a Day.
const layout = "2006-01-02"

// FromTime converts t to a Day, truncating to the calendar date in UTC.
//
// The conversion works on Unix seconds rather than time.Time.Sub, whose
// time.Duration result saturates a few hundred years out from the epoch.
func FromTime(t time.Time) Day {
	sec := t.Unix()
	days := sec / 86400
	if sec%86400 < 0 {
		days-- // integer division truncates toward zero, we need the floor
	}
	return Day(days - epochUnixDays)
}

// Date constructs a Day from a calendar date. Out-of-range month/day values
// are normalized the same way time.Date normalizes them.
func Date(year int, month time.Month, day int) Day {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Parse parses a date in "2006-01-02" form.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, err
	}
	return FromTime(t), nil
}

// Time returns the midnight UTC time for d. Calling Time on a sentinel
// returns the epoch shifted by the sentinel offset and is not meaningful;
// check IsSentinel first.
func (d Day) Time() time.Time {
	return epoch.AddDate(0, 0, int(d))
}

// IsSentinel reports whether d is DistantPast or DistantFuture.
func (d Day) IsSentinel() bool {
	return d == DistantPast || d == DistantFuture
}

// String renders d as "2006-01-02". Sentinels render as "-infinity" and
// "infinity", matching the backing store's date output.
func (d Day) String() string {
	switch d {
	case DistantPast:
		return "-infinity"
	case DistantFuture:
		return "infinity"
	}
	return d.Time().Format(layout)
}
