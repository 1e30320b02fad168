package calcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordPopulate is called after each population attempt that actually
	// reached the fill path (the filled fast path does not report).
	// duration is the total time taken, err is nil if successful.
	RecordPopulate(duration time.Duration, err error)

	// RecordLookup is called after each add-days lookup.
	// err is nil on success; unknown-calendar lookups report NotFoundError.
	RecordLookup(duration time.Duration, err error)

	// RecordInvalidate is called after each cache invalidation.
	RecordInvalidate()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPopulate(time.Duration, error) {}
func (NoopMetricsCollector) RecordLookup(time.Duration, error)   {}
func (NoopMetricsCollector) RecordInvalidate()                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PopulateCount      atomic.Int64
	PopulateErrors     atomic.Int64
	PopulateTotalNanos atomic.Int64

	LookupCount      atomic.Int64
	LookupErrors     atomic.Int64
	LookupTotalNanos atomic.Int64

	InvalidateCount atomic.Int64
}

func (c *BasicMetricsCollector) RecordPopulate(duration time.Duration, err error) {
	c.PopulateCount.Add(1)
	c.PopulateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.PopulateErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordLookup(duration time.Duration, err error) {
	c.LookupCount.Add(1)
	c.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.LookupErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordInvalidate() {
	c.InvalidateCount.Add(1)
}
