package datasource

import (
	"cmp"
	"context"
	"slices"

	"github.com/finplan/calcache/epochday"
)

// StaticCalendar is one calendar of a Static source.
type StaticCalendar struct {
	ID   int64
	XUID string
	Days []epochday.Day
}

// Static is an in-memory DataSource. It is handy in tests and examples, or
// when calendar data is shipped with the application instead of a database.
//
// Days are sorted and de-duplicated at construction so the source always
// honors the ordering contract of DataSource.
type Static struct {
	calendars []StaticCalendar
}

// NewStatic builds a Static source from the given calendars.
func NewStatic(calendars ...StaticCalendar) *Static {
	cals := make([]StaticCalendar, len(calendars))
	for i, c := range calendars {
		days := slices.Clone(c.Days)
		slices.Sort(days)
		days = slices.Compact(days)
		cals[i] = StaticCalendar{ID: c.ID, XUID: c.XUID, Days: days}
	}
	slices.SortFunc(cals, func(a, b StaticCalendar) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return &Static{calendars: cals}
}

// ValidateSchema always succeeds for a static source.
func (s *Static) ValidateSchema(context.Context) error { return nil }

// Calendars enumerates the static calendars ordered by id.
func (s *Static) Calendars(context.Context) ([]CalendarHeader, error) {
	headers := make([]CalendarHeader, len(s.calendars))
	for i, c := range s.calendars {
		headers[i] = CalendarHeader{
			ID:         c.ID,
			XUID:       c.XUID,
			EntryCount: int64(len(c.Days)),
		}
	}
	return headers, nil
}

// Entries streams the static entries in calendar-then-day order.
func (s *Static) Entries(ctx context.Context, fn EntryFunc) error {
	for _, c := range s.calendars {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, d := range c.Days {
			if err := fn(c.ID, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close is a no-op for a static source.
func (s *Static) Close() error { return nil }
