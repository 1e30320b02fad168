package calendar

import "github.com/finplan/calcache/epochday"

// FloorKind classifies the outcome of a floor search.
type FloorKind uint8

const (
	// FloorFound means the target falls inside the calendar's covered pages
	// and Index holds the largest i with Days[i] <= target.
	FloorFound FloorKind = iota
	// FloorBefore means the target precedes the calendar's first page.
	FloorBefore
	// FloorAfter means the target lies beyond the calendar's last page.
	FloorAfter
)

// FloorResult is the outcome of FloorSearch. Index is only meaningful for
// FloorFound.
type FloorResult struct {
	Kind  FloorKind
	Index int32
}

// FloorSearch resolves the index of the closest day at or before target.
//
// The page map narrows the search to one page's window, so the binary search
// runs over a handful of entries regardless of calendar size. Targets outside
// the covered page range are reported as FloorBefore / FloorAfter instead of
// the legacy sign-overloaded indices.
func (c *Calendar) FloorSearch(target epochday.Day) FloorResult {
	pageIdx := int32(target)/c.PageSize - c.FirstPageOffset

	if pageIdx >= int32(len(c.PageMap)) {
		return FloorResult{Kind: FloorAfter}
	}
	if pageIdx < 0 {
		return FloorResult{Kind: FloorBefore}
	}

	left := c.PageMap[pageIdx]
	right := int32(len(c.Days))
	if int(pageIdx+1) < len(c.PageMap) {
		right = c.PageMap[pageIdx+1]
	}

	for left < right {
		mid := left + (right-left)/2
		switch {
		case c.Days[mid] == target:
			return FloorResult{Kind: FloorFound, Index: mid}
		case c.Days[mid] < target:
			left = mid + 1
		default:
			right = mid
		}
	}

	if left == 0 {
		// Target precedes every entry of its own page and there is no earlier
		// page to fall back to.
		return FloorResult{Kind: FloorBefore}
	}
	return FloorResult{Kind: FloorFound, Index: left - 1}
}
