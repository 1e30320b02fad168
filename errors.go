package calcache

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates the loaded data does not fit the configured
	// limits (or the page index degenerated). Fills failing with it leave the
	// cache empty; a retry only helps after the configuration or data change.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataIntegrity indicates the data source broke its contract: a row
	// referenced an unknown calendar, entries arrived out of order, or the
	// loaded total did not match the enumerated total. Fills failing with it
	// leave the cache empty so a later call can retry.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrThrottled is returned by Populate when a repopulate throttle is
	// configured and a new fill is not yet allowed to start.
	ErrThrottled = errors.New("repopulate throttled")

	// ErrCalendarNotFound is the sentinel wrapped by NotFoundError.
	ErrCalendarNotFound = errors.New("calendar not found")
)

// CapacityError reports a configured limit being exceeded during a fill.
//
// It wraps ErrConfiguration, accessible via errors.Is.
type CapacityError struct {
	Resource string // "calendars", "entries", "xuid length"
	Limit    int64
	Got      int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %d > %d", e.Resource, e.Got, e.Limit)
}

func (e *CapacityError) Unwrap() error { return ErrConfiguration }

// NotFoundError reports an unknown calendar id or external key at lookup
// time. It is non-fatal: the cache state is unaffected.
//
// It wraps ErrCalendarNotFound, accessible via errors.Is.
type NotFoundError struct {
	ID   int64
	XUID string
}

func (e *NotFoundError) Error() string {
	if e.XUID != "" {
		return fmt.Sprintf("calendar xuid %q not found", e.XUID)
	}
	return fmt.Sprintf("calendar id %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrCalendarNotFound }
