package alerts

import (
	"sync"
	"time"
)

// Suppressor enforces a minimum spacing between triggered events for the
// same (session, alert) pair. The clock passed to Allow is per-process; it
// is not persisted, so a process restart clears suppression state.
type Suppressor struct {
	window time.Duration

	mu       sync.Mutex
	lastFire map[string]time.Time
}

// NewSuppressor builds a Suppressor with the given minimum window.
func NewSuppressor(window time.Duration) *Suppressor {
	return &Suppressor{window: window, lastFire: make(map[string]time.Time)}
}

// Allow reports whether a trigger for (sessionID, alertID) at instant now
// falls outside the suppression window, recording now as the new last-fire
// time if so.
func (s *Suppressor) Allow(sessionID, alertID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionID + "\x00" + alertID
	last, seen := s.lastFire[key]
	if seen && now.Sub(last) < s.window {
		return false
	}
	s.lastFire[key] = now
	return true
}
