package kvstore

import "time"

// SetClock replaces the memory store clock.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}
