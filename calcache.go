package calcache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/finplan/calcache/calendar"
	"github.com/finplan/calcache/datasource"
	"github.com/finplan/calcache/epochday"
)

// CacheState is the lifecycle state of the cache.
type CacheState int32

const (
	// StateEmpty means no calendar data is loaded.
	StateEmpty CacheState = iota
	// StateFilling means exactly one fill is in flight.
	StateFilling
	// StateFilled means the cache is populated and serving lookups.
	StateFilled
)

func (s CacheState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateFilled:
		return "filled"
	}
	return fmt.Sprintf("CacheState(%d)", int32(s))
}

// Cache is an in-memory, read-mostly cache of business calendars.
//
// A Cache owns its locks and maps; create one per data source (multiple
// independent instances are fine, e.g. in tests). All methods are safe for
// concurrent use. Lookups auto-populate on first use; at most one fill runs
// per invalidation cycle, concurrent callers wait for the winner.
type Cache struct {
	source datasource.DataSource
	store  calendarStore

	// state transitions: Empty -> Filling (CAS, one winner),
	// Filling -> Filled | Empty, Filled -> Empty (invalidate). Nothing else.
	state atomic.Int32

	fill          singleflight.Group
	repopThrottle *rate.Limiter

	limits  Limits
	logger  *Logger
	metrics MetricsCollector
}

// New creates a Cache over the given data source. The source is not touched
// until the first Populate or lookup.
func New(source datasource.DataSource, optFns ...Option) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("calcache: data source is nil")
	}

	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		limits:           DefaultLimits(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Cache{
		source:        source,
		repopThrottle: opts.repopThrottle,
		limits:        opts.limits,
		logger:        opts.logger,
		metrics:       opts.metricsCollector,
	}, nil
}

// State returns the current cache state.
func (c *Cache) State() CacheState {
	return CacheState(c.state.Load())
}

// Populate loads all calendars from the data source if the cache is not
// already filled. It is idempotent and safe to call from any number of
// goroutines: one caller wins and performs the load, the others wait for its
// outcome, bounded by their own context deadline. A caller timing out does
// not abort the in-flight fill. An Invalidate racing the fill wins: the
// fill's result is discarded and the cache stays empty.
func (c *Cache) Populate(ctx context.Context) error {
	if c.State() == StateFilled {
		return nil
	}

	start := time.Now()
	err := c.populate(ctx)
	c.metrics.RecordPopulate(time.Since(start), err)
	return err
}

func (c *Cache) populate(ctx context.Context) error {
	// Fast path, no lock: filled caches answer immediately.
	if c.State() == StateFilled {
		return nil
	}

	// All concurrent populators share one flight; the losers block on the
	// winner's channel instead of polling shared state.
	ch := c.fill.DoChan("fill", func() (any, error) {
		// Detached from the initiating caller: a fill either completes or
		// fails as a whole, it is not cancellable by one of many waiters.
		return nil, c.doFill(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		// Population still in progress; the caller can retry later.
		return ctx.Err()
	}
}

func (c *Cache) doFill(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateEmpty), int32(StateFilling)) {
		if c.State() == StateFilled {
			// Another flight completed between the fast path and ours.
			return nil
		}
		return fmt.Errorf("calcache: %w: fill started in state %s", ErrDataIntegrity, c.State())
	}

	if c.repopThrottle != nil && !c.repopThrottle.Allow() {
		c.state.Store(int32(StateEmpty))
		return ErrThrottled
	}

	gen := c.store.generation()

	start := time.Now()
	byID, idByXUID, entries, err := c.load(ctx)
	if err != nil {
		// Never leave the state stuck in Filling: reset so a later call can
		// retry, and propagate.
		c.state.Store(int32(StateEmpty))
		c.logger.Error("cache fill failed", "error", err)
		return err
	}

	// Publish atomically with the transition to Filled. If an Invalidate ran
	// while we were loading, the generation moved on: the invalidation wins
	// and the loaded data is discarded.
	if !c.store.replace(gen, byID, idByXUID, entries, func() {
		c.state.Store(int32(StateFilled))
	}) {
		c.state.Store(int32(StateEmpty))
		c.logger.Info("cache fill discarded", "reason", "invalidated during fill")
		return nil
	}

	c.logger.Info("cache ready",
		"calendars", len(byID),
		"entries", entries,
		"elapsed", time.Since(start),
	)
	return nil
}

// load pulls everything from the data source and builds the new generation's
// maps. It runs inside the single fill flight; publishing is the caller's
// job.
func (c *Cache) load(ctx context.Context) (map[int64]*calendar.Calendar, map[string]int64, int64, error) {
	if err := c.source.ValidateSchema(ctx); err != nil {
		return nil, nil, 0, err
	}

	headers, err := c.source.Calendars(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(headers) > c.limits.MaxCalendars {
		return nil, nil, 0, &CapacityError{Resource: "calendars", Limit: int64(c.limits.MaxCalendars), Got: int64(len(headers))}
	}

	byID := make(map[int64]*calendar.Calendar, len(headers))
	idByXUID := make(map[string]int64, len(headers))

	var expected int64
	for _, h := range headers {
		if len(h.XUID) > c.limits.MaxXUIDLength {
			return nil, nil, 0, &CapacityError{Resource: "xuid length", Limit: int64(c.limits.MaxXUIDLength), Got: int64(len(h.XUID))}
		}
		if h.EntryCount < 0 {
			return nil, nil, 0, fmt.Errorf("calcache: %w: calendar %d reports negative entry count (%d)", ErrDataIntegrity, h.ID, h.EntryCount)
		}
		if h.EntryCount > int64(c.limits.MaxEntriesPerCalendar) {
			return nil, nil, 0, &CapacityError{Resource: "entries", Limit: int64(c.limits.MaxEntriesPerCalendar), Got: h.EntryCount}
		}
		xuid := strings.ToLower(h.XUID)
		if _, dup := byID[h.ID]; dup {
			return nil, nil, 0, fmt.Errorf("calcache: %w: duplicate calendar id %d", ErrDataIntegrity, h.ID)
		}
		if _, dup := idByXUID[xuid]; dup {
			return nil, nil, 0, fmt.Errorf("calcache: %w: duplicate calendar xuid %q", ErrDataIntegrity, xuid)
		}

		cal := calendar.New(h.ID, xuid)
		cal.Days = make([]epochday.Day, 0, h.EntryCount)
		byID[h.ID] = cal
		idByXUID[xuid] = h.ID
		expected += h.EntryCount

		c.logger.Debug("calendar enumerated", "id", h.ID, "xuid", xuid, "entries", h.EntryCount)
	}

	var loaded int64
	err = c.source.Entries(ctx, func(calendarID int64, day epochday.Day) error {
		cal, ok := byID[calendarID]
		if !ok {
			return fmt.Errorf("calcache: %w: entry references unknown calendar id %d", ErrDataIntegrity, calendarID)
		}
		if len(cal.Days) >= c.limits.MaxEntriesPerCalendar {
			return &CapacityError{Resource: "entries", Limit: int64(c.limits.MaxEntriesPerCalendar), Got: int64(len(cal.Days)) + 1}
		}
		if n := len(cal.Days); n > 0 && day <= cal.Days[n-1] {
			return fmt.Errorf("calcache: %w: calendar %d dates not strictly ascending (%s after %s)",
				ErrDataIntegrity, calendarID, day, cal.Days[n-1])
		}
		cal.Days = append(cal.Days, day)
		loaded++
		return nil
	})
	if err != nil {
		return nil, nil, 0, err
	}

	if loaded != expected {
		return nil, nil, 0, fmt.Errorf("calcache: %w: loaded %d entries, enumerated %d", ErrDataIntegrity, loaded, expected)
	}

	for _, cal := range byID {
		if len(cal.Days) == 0 {
			continue
		}
		if err := cal.BuildPageIndex(); err != nil {
			return nil, nil, 0, fmt.Errorf("calcache: %w: %v", ErrConfiguration, err)
		}
		c.logger.Debug("page map built",
			"id", cal.ID,
			"page_size", cal.PageSize,
			"page_map_entries", len(cal.PageMap),
		)
	}

	return byID, idByXUID, expected, nil
}

// Invalidate clears the cache unconditionally. Both maps and the state are
// reset in one exclusive critical section; lookups in flight observe either
// the old generation or the empty one, never a partial clear.
func (c *Cache) Invalidate() {
	c.store.clear(func() {
		c.state.Store(int32(StateEmpty))
	})
	c.metrics.RecordInvalidate()
	c.logger.Info("cache invalidated")
}

// AddDaysByID steps interval business days from date on the calendar with
// the given id, populating the cache first if needed. Unknown ids return a
// NotFoundError; the cache state is unaffected.
func (c *Cache) AddDaysByID(ctx context.Context, calendarID int64, date epochday.Day, interval int32) (epochday.Day, error) {
	start := time.Now()
	result, err := c.addDays(ctx, func() (*calendar.Calendar, bool) {
		return c.store.get(calendarID)
	}, &NotFoundError{ID: calendarID}, date, interval)
	c.metrics.RecordLookup(time.Since(start), err)
	return result, err
}

// AddDaysByXUID is AddDaysByID keyed by the calendar's external key. The key
// is matched case-insensitively.
func (c *Cache) AddDaysByXUID(ctx context.Context, xuid string, date epochday.Day, interval int32) (epochday.Day, error) {
	key := strings.ToLower(xuid)
	start := time.Now()
	result, err := c.addDays(ctx, func() (*calendar.Calendar, bool) {
		return c.store.getByXUID(key)
	}, &NotFoundError{XUID: xuid}, date, interval)
	c.metrics.RecordLookup(time.Since(start), err)
	return result, err
}

func (c *Cache) addDays(ctx context.Context, fetch func() (*calendar.Calendar, bool), notFound *NotFoundError, date epochday.Day, interval int32) (epochday.Day, error) {
	if err := c.populate(ctx); err != nil {
		return 0, err
	}
	cal, ok := fetch()
	if !ok {
		return 0, notFound
	}
	// The calendar is immutable; the search runs with no lock held.
	return cal.AddDays(date, interval), nil
}

// Close releases the underlying data source. The in-memory cache remains
// readable but can no longer repopulate.
func (c *Cache) Close() error {
	return c.source.Close()
}
