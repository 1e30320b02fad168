// Package calcache maintains an in-memory, read-mostly cache of business
// calendars and answers "add N business days to a date" queries without
// touching the backing store on every call.
//
// Each calendar is the complete ascending set of its valid business dates,
// indexed by a sparse page map that narrows any lookup to a handful of
// entries before a bounded binary search (see package calendar). Calendars
// load once from a datasource.DataSource and are immutable until the cache
// is invalidated; at most one fill runs per invalidation cycle no matter how
// many goroutines ask.
//
// # Quick start
//
//	src := datasource.NewStatic(datasource.StaticCalendar{
//	    ID:   1,
//	    XUID: "settlement",
//	    Days: days, // ascending epochday.Day values
//	})
//
//	cache, err := calcache.New(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	d, err := cache.AddDaysByXUID(ctx, "settlement", epochday.Date(2024, time.January, 15), 1)
//
// Against PostgreSQL, use datasource.NewPostgres with the connection URL;
// the default queries target the originating plan.calendar schema and can be
// overridden per installation.
//
// Results saturate instead of failing: stepping past a calendar's boundaries
// yields epochday.DistantPast or epochday.DistantFuture, so downstream date
// arithmetic degrades predictably.
package calcache
