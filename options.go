package calcache

import (
	"golang.org/x/time/rate"
)

// Limits bound what a single fill may load. They preserve the fail-fast
// safety contract of the fixed-size deployment the cache originated in:
// growable containers, but enforced capacity checks at insertion time.
type Limits struct {
	// MaxCalendars is the maximum number of calendars per fill.
	MaxCalendars int
	// MaxEntriesPerCalendar is the maximum number of dates in one calendar.
	MaxEntriesPerCalendar int
	// MaxXUIDLength is the maximum byte length of a calendar's external key.
	MaxXUIDLength int
}

// DefaultLimits returns the historical capacity defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxCalendars:          128,
		MaxEntriesPerCalendar: 512 * 1024,
		MaxXUIDLength:         128,
	}
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	limits           Limits
	repopThrottle    *rate.Limiter
}

// Option configures Cache constructor behavior.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLimits overrides the capacity limits enforced during fills.
// Zero or negative fields fall back to their defaults.
func WithLimits(l Limits) Option {
	return func(o *options) {
		def := DefaultLimits()
		if l.MaxCalendars <= 0 {
			l.MaxCalendars = def.MaxCalendars
		}
		if l.MaxEntriesPerCalendar <= 0 {
			l.MaxEntriesPerCalendar = def.MaxEntriesPerCalendar
		}
		if l.MaxXUIDLength <= 0 {
			l.MaxXUIDLength = def.MaxXUIDLength
		}
		o.limits = l
	}
}

// WithRepopulateThrottle limits how often a new fill may start. A failed fill
// resets the cache to empty, so every subsequent lookup retries population;
// against a flapping data source the throttle keeps those retries from
// hammering it. Populate returns ErrThrottled while a fill is not allowed.
//
// Size the limiter's burst to at least 1 or the first fill is throttled too.
func WithRepopulateThrottle(l *rate.Limiter) Option {
	return func(o *options) {
		o.repopThrottle = l
	}
}
