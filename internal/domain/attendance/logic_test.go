package attendance

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestClassifyPresent(t *testing.T) {
	status, worked := Classify(at(9, 0), at(18, 0), "09:00")
	if status != StatusPresent {
		t.Fatalf("status = %s, want PRESENT", status)
	}
	if worked != 9 {
		t.Fatalf("workedHours = %v, want 9", worked)
	}
}

func TestClassifyWithinGraceIsPresent(t *testing.T) {
	status, _ := Classify(at(9, 15), at(18, 0), "09:00")
	if status != StatusPresent {
		t.Fatalf("status = %s, want PRESENT (15 min grace)", status)
	}
}

func TestClassifyLate(t *testing.T) {
	status, _ := Classify(at(9, 16), at(18, 0), "09:00")
	if status != StatusLate {
		t.Fatalf("status = %s, want LATE", status)
	}
}

func TestClassifyHalfDay(t *testing.T) {
	status, worked := Classify(at(9, 0), at(12, 30), "09:00")
	if status != StatusHalfDay {
		t.Fatalf("status = %s, want HALF_DAY", status)
	}
	if worked != 3.5 {
		t.Fatalf("workedHours = %v, want 3.5", worked)
	}
}

func TestClassifyShortDayBeatsLate(t *testing.T) {
	status, _ := Classify(at(11, 0), at(14, 0), "09:00")
	if status != StatusHalfDay {
		t.Fatalf("status = %s, want HALF_DAY even when late", status)
	}
}

func TestClassifyExactlyFourHoursIsFullDay(t *testing.T) {
	status, _ := Classify(at(9, 0), at(13, 0), "09:00")
	if status != StatusPresent {
		t.Fatalf("status = %s, want PRESENT at exactly 4 hours", status)
	}
}

func TestClassifyNoScheduleSkipsLateCheck(t *testing.T) {
	status, _ := Classify(at(11, 0), at(19, 0), "")
	if status != StatusPresent {
		t.Fatalf("status = %s, want PRESENT without a schedule", status)
	}
}

func TestDayOfKeepsLocalCalendarDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 00:30 local is still the previous day in UTC
	punch := time.Date(2026, 3, 2, 0, 30, 0, 0, ist)

	day := DayOf(punch)
	if day.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("formatted day = %s, want 2026-03-02", day.Format("2006-01-02"))
	}
	if truncated := punch.Truncate(24 * time.Hour); truncated.Format("2006-01-02") == day.Format("2006-01-02") {
		t.Fatalf("expected epoch truncation to disagree for an early-morning punch, got %v", truncated)
	}
}

func TestDayOfMidnightIsStable(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	midnight := time.Date(2026, 3, 3, 0, 0, 0, 0, ist)
	if got := DayOf(midnight); !got.Equal(midnight) {
		t.Fatalf("DayOf(midnight) = %v, want unchanged", got)
	}
}
