package rangetoken

import (
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/pkg/models"
)

var fixedNow = time.Date(2026, 7, 31, 15, 30, 0, 0, time.UTC) // Friday

func TestCompute_Today(t *testing.T) {
	start, end, interval, ok := Compute("today", fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	wantStart := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("got [%v, %v)", start, end)
	}
	if interval != models.IntervalDay {
		t.Errorf("interval = %v, want day", interval)
	}
}

func TestCompute_Yesterday(t *testing.T) {
	start, end, _, ok := Compute("yesterday", fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	wantEnd := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	if !end.Equal(wantEnd) || !start.Equal(wantEnd.AddDate(0, 0, -1)) {
		t.Errorf("got [%v, %v)", start, end)
	}
}

func TestCompute_LastNHours(t *testing.T) {
	start, end, interval, ok := Compute(LastNHours(4), fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	if !end.Equal(fixedNow) {
		t.Errorf("end = %v, want now", end)
	}
	if !start.Equal(fixedNow.Add(-4 * time.Hour)) {
		t.Errorf("start = %v", start)
	}
	if interval != models.IntervalHour {
		t.Errorf("interval = %v, want hour", interval)
	}
}

func TestCompute_NHoursAgo(t *testing.T) {
	start, end, _, ok := Compute(NHoursAgo(2), fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	if !start.Equal(fixedNow.Add(-2 * time.Hour)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(fixedNow.Add(-1 * time.Hour)) {
		t.Errorf("end = %v", end)
	}
}

func TestCompute_NDaysAgo(t *testing.T) {
	start, end, _, ok := Compute(NDaysAgo(2), fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	floorToday := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	if !start.Equal(floorToday.AddDate(0, 0, -2)) || !end.Equal(floorToday.AddDate(0, 0, -1)) {
		t.Errorf("got [%v, %v)", start, end)
	}
}

func TestCompute_PreviousNDays(t *testing.T) {
	start, end, _, ok := Compute("previous_7_days", fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	if !end.Equal(fixedNow.AddDate(0, 0, -7)) {
		t.Errorf("end = %v", end)
	}
	if !start.Equal(fixedNow.AddDate(0, 0, -14)) {
		t.Errorf("start = %v", start)
	}
}

func TestCompute_ThisWeekStartsMonday(t *testing.T) {
	start, _, _, ok := Compute("this_week", fixedNow)
	if !ok {
		t.Fatal("expected ok")
	}
	if start.Weekday() != time.Monday {
		t.Errorf("this_week start weekday = %v, want Monday", start.Weekday())
	}
}

func TestCompute_Unrecognized(t *testing.T) {
	_, _, _, ok := Compute("not_a_real_token", fixedNow)
	if ok {
		t.Fatal("expected !ok for unrecognized token")
	}
}

func TestCompute_IntervalsAreHalfOpen(t *testing.T) {
	start, end, _, _ := Compute("last_week", fixedNow)
	if !start.Before(end) {
		t.Fatalf("start %v must be before end %v", start, end)
	}
}
