package alerts

import (
	"testing"
	"time"
)

func TestSuppressor_AllowsFirstFire(t *testing.T) {
	s := NewSuppressor(5 * time.Minute)
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	if !s.Allow("session-1", "alert-1", now) {
		t.Error("first fire should always be allowed")
	}
}

func TestSuppressor_BlocksWithinWindow(t *testing.T) {
	s := NewSuppressor(5 * time.Minute)
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	s.Allow("session-1", "alert-1", now)
	if s.Allow("session-1", "alert-1", now.Add(4*time.Minute)) {
		t.Error("expected suppression within the window")
	}
}

func TestSuppressor_AllowsAfterWindow(t *testing.T) {
	s := NewSuppressor(5 * time.Minute)
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	s.Allow("session-1", "alert-1", now)
	if !s.Allow("session-1", "alert-1", now.Add(5*time.Minute+time.Second)) {
		t.Error("expected a new fire to be allowed after the window elapses")
	}
}

func TestSuppressor_DistinctSessionsIndependent(t *testing.T) {
	s := NewSuppressor(5 * time.Minute)
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	s.Allow("session-1", "alert-1", now)
	if !s.Allow("session-2", "alert-1", now) {
		t.Error("a different session sharing an alert ID should not be suppressed")
	}
}
