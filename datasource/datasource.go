// Package datasource abstracts the backing store the cache is populated from.
//
// A DataSource answers three questions, always in this order during a fill:
// is the schema compatible, which calendars exist (with their entry counts),
// and what are the entries. Entries stream in calendar-then-date order so the
// cache can append without sorting. Implementations exist for PostgreSQL
// (the originating schema), SQLite, and a static in-memory source used in
// tests and examples.
package datasource

import (
	"context"
	"errors"

	"github.com/finplan/calcache/epochday"
)

// ErrIncompatibleSchema is returned by ValidateSchema when the backing store
// does not carry the expected calendar tables.
var ErrIncompatibleSchema = errors.New("datasource: incompatible schema")

// CalendarHeader describes one calendar as enumerated before entries load.
type CalendarHeader struct {
	ID         int64
	XUID       string
	EntryCount int64
}

// EntryFunc receives one (calendar id, day) row. Returning an error aborts
// the stream and is propagated by Entries.
type EntryFunc func(calendarID int64, day epochday.Day) error

// DataSource supplies calendar rows for cache population.
type DataSource interface {
	// ValidateSchema verifies the backing store is compatible. A failed
	// check returns an error wrapping ErrIncompatibleSchema.
	ValidateSchema(ctx context.Context) error

	// Calendars enumerates all calendars ordered by id ascending.
	Calendars(ctx context.Context) ([]CalendarHeader, error)

	// Entries streams every (calendar id, day) row ordered first by
	// calendar id ascending, then by day ascending, covering exactly the
	// entries counted by Calendars.
	Entries(ctx context.Context, fn EntryFunc) error

	// Close releases any resources held by the source.
	Close() error
}
