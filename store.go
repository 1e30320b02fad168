package calcache

import (
	"sync"

	"github.com/finplan/calcache/calendar"
)

// calendarStore holds the shared calendar table: the id map and the
// secondary xuid index. The two maps are only ever replaced or cleared
// together, under the write lock, so readers never observe one without the
// other. Individual Calendar values are immutable once published; lookups
// hold the read lock only long enough to fetch the pointer.
type calendarStore struct {
	mu       sync.RWMutex
	byID     map[int64]*calendar.Calendar
	idByXUID map[string]int64
	entries  int64

	// gen counts invalidations. A fill captures it before loading and may
	// only publish if it has not moved, so an invalidate racing the fill is
	// never silently overridden.
	gen uint64
}

// get fetches the calendar for id.
func (s *calendarStore) get(id int64) (*calendar.Calendar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}

// getByXUID fetches the calendar for the (already lowercased) external key.
func (s *calendarStore) getByXUID(xuid string) (*calendar.Calendar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.idByXUID[xuid]
	if !ok {
		return nil, false
	}
	c, ok := s.byID[id]
	return c, ok
}

// generation returns the current invalidation generation.
func (s *calendarStore) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// replace publishes a freshly built generation of both maps atomically,
// running fn (the state transition) inside the same critical section. It
// reports false, leaving the store untouched, if the generation moved since
// gen was captured.
func (s *calendarStore) replace(gen uint64, byID map[int64]*calendar.Calendar, idByXUID map[string]int64, entries int64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.byID = byID
	s.idByXUID = idByXUID
	s.entries = entries
	if fn != nil {
		fn()
	}
	return true
}

// clear drops both maps in one critical section, bumps the generation, and
// runs fn (the state reset) before releasing the lock, so no reader can see
// cleared maps with a stale state or vice versa.
func (s *calendarStore) clear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.byID = nil
	s.idByXUID = nil
	s.entries = 0
	if fn != nil {
		fn()
	}
}

// counts returns the published calendar and entry counts.
func (s *calendarStore) counts() (calendars int, entries int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), s.entries
}

// snapshot returns the calendars of the current generation. The returned
// slice is private to the caller; the calendars themselves are shared and
// immutable.
func (s *calendarStore) snapshot() []*calendar.Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*calendar.Calendar, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	return out
}
