package calcache

import (
	"cmp"
	"slices"

	"github.com/finplan/calcache/epochday"
)

// CalendarInfo describes one cached calendar.
type CalendarInfo struct {
	ID             int64
	XUID           string
	Entries        int64
	PageSize       int32
	PageMapEntries int64
}

// Stats summarizes the cache as a whole.
type Stats struct {
	Calendars int
	Entries   int64
	Filled    bool
}

// ListCalendars returns one CalendarInfo per cached calendar, sorted by id.
// It is read-only and safe to call concurrently with anything, including an
// in-flight fill (which it then simply does not see).
func (c *Cache) ListCalendars() []CalendarInfo {
	cals := c.store.snapshot()
	infos := make([]CalendarInfo, 0, len(cals))
	for _, cal := range cals {
		infos = append(infos, CalendarInfo{
			ID:             cal.ID,
			XUID:           cal.XUID,
			Entries:        int64(len(cal.Days)),
			PageSize:       cal.PageSize,
			PageMapEntries: int64(len(cal.PageMap)),
		})
	}
	slices.SortFunc(infos, func(a, b CalendarInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return infos
}

// Stats returns the published calendar and entry counts and whether the
// cache is filled.
func (c *Cache) Stats() Stats {
	calendars, entries := c.store.counts()
	return Stats{
		Calendars: calendars,
		Entries:   entries,
		Filled:    c.State() == StateFilled,
	}
}

// MemoryUsage estimates the bytes held by the cached calendars: date and
// page-map slices plus the xuid index. Map bucket overhead is not counted.
func (c *Cache) MemoryUsage() int64 {
	var total int64
	for _, cal := range c.store.snapshot() {
		total += int64(len(cal.Days)) * 4
		total += int64(len(cal.PageMap)) * 4
		total += int64(len(cal.XUID)) + 8
	}
	return total
}

// Dates returns a copy of the given calendar's dates, for inspection. The
// second return is false if the calendar is not cached.
func (c *Cache) Dates(calendarID int64) ([]epochday.Day, bool) {
	cal, ok := c.store.get(calendarID)
	if !ok {
		return nil, false
	}
	return slices.Clone(cal.Days), true
}

// PageMap returns a copy of the given calendar's page map, for inspection.
func (c *Cache) PageMap(calendarID int64) ([]int32, bool) {
	cal, ok := c.store.get(calendarID)
	if !ok {
		return nil, false
	}
	return slices.Clone(cal.PageMap), true
}
