// Package calendar implements the paged lookup structure behind calcache.
//
// A Calendar holds the complete, strictly ascending set of valid business
// dates for one calendar, plus a sparse page map that narrows any date lookup
// to a small window before a bounded binary search. Calendars are built once,
// under exclusive access, and are immutable afterwards; every read path
// operates on the frozen snapshot without locking.
package calendar

import (
	"fmt"

	"github.com/finplan/calcache/epochday"
)

// Page size constants. Dense calendars (more than one entry per week on
// average) get the finer page, sparse ones the coarser.
const (
	pageSizeWeekly  int32 = 16
	pageSizeMonthly int32 = 32
)

// Calendar is an immutable set of business dates with its page index.
//
// Days is strictly ascending and duplicate-free. PageMap[p] is the index of
// the first entry of Days whose page is >= FirstPageOffset+p; PageMap is
// non-decreasing and PageMap[0] == 0. Neither slice is mutated after
// buildPageIndex returns.
type Calendar struct {
	ID   int64
	XUID string

	Days            []epochday.Day
	PageSize        int32
	FirstPageOffset int32
	PageMap         []int32
}

// New returns an empty calendar shell. Days are appended during population
// and the page index is built afterwards via BuildPageIndex.
func New(id int64, xuid string) *Calendar {
	return &Calendar{ID: id, XUID: xuid}
}

// calculatePageSize picks the page size from the calendar's density: if the
// entry count exceeds one entry per week across the covered range, the
// calendar is treated as weekly-grained, otherwise monthly.
func calculatePageSize(firstDay, lastDay epochday.Day, entryCount int) int32 {
	avgEntriesPerWeek := float64(lastDay-firstDay) / 7.0
	if float64(entryCount) > avgEntriesPerWeek {
		return pageSizeWeekly
	}
	return pageSizeMonthly
}

// BuildPageIndex computes the page size, first page offset and page map for
// the calendar's current Days. It must run exactly once per fill cycle, under
// exclusive access, after all days have been appended; Days must be non-empty
// and strictly ascending.
func (c *Calendar) BuildPageIndex() error {
	pageSize := calculatePageSize(c.Days[0], c.Days[len(c.Days)-1], len(c.Days))
	if pageSize == 0 {
		// Unreachable for the two constants above; guards the divisions below.
		return fmt.Errorf("calendar %d: %w", c.ID, ErrZeroPageSize)
	}

	firstPageOffset := int32(c.Days[0]) / pageSize

	pageMap := make([]int32, 1, len(c.Days))
	prevPage := int32(0)
	for i, day := range c.Days {
		pageIndex := int32(day)/pageSize - firstPageOffset
		for prevPage < pageIndex {
			prevPage++
			pageMap = append(pageMap, int32(i))
		}
	}

	c.PageSize = pageSize
	c.FirstPageOffset = firstPageOffset
	c.PageMap = pageMap

	return nil
}
