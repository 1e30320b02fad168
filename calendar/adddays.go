package calendar

import "github.com/finplan/calcache/epochday"

// AddDays steps interval business days from input, using the calendar as the
// sole source of valid dates. The step is anchored at the closest business
// day at or before input, so an input that is not itself a business day first
// snaps back to the preceding one.
//
// Stepping past either boundary saturates instead of wrapping or failing:
// results before the first entry collapse to epochday.DistantPast, results
// after the last entry to epochday.DistantFuture. Inputs beyond the
// calendar's last page also resolve to DistantPast, preserving the legacy
// sentinel arithmetic of the original implementation.
//
// A calendar with no dates bypasses lookup entirely and returns the raw sum
// input+interval. This is documented historical behavior for uninitialized
// placeholder calendars, kept intentionally.
func (c *Calendar) AddDays(input epochday.Day, interval int32) epochday.Day {
	if len(c.Days) == 0 {
		return input + epochday.Day(interval)
	}

	prev := c.FloorSearch(input)
	if prev.Kind != FloorFound {
		return epochday.DistantPast
	}

	// 64-bit index arithmetic so extreme intervals saturate instead of
	// overflowing.
	idx := int64(prev.Index) + int64(interval)
	switch {
	case idx < 0:
		return epochday.DistantPast
	case idx >= int64(len(c.Days)):
		return epochday.DistantFuture
	}
	return c.Days[idx]
}
