package leave

import (
	"testing"
	"time"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %d", days)
	}

	end := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	days, err = CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}
}

func TestCalculateDaysInvalidRange(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)

	if _, err := CalculateDays(start, end); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestEntitlementProbation(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -60)

	got := EntitlementFor(false, joined, now)
	want := Entitlement{Annual: 12, Sick: 5, Other: 0}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEntitlementConfirmed(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -60)

	got := EntitlementFor(true, joined, now)
	want := Entitlement{Annual: 24, Sick: 5, Other: 16}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEntitlementLongTenureUnconfirmed(t *testing.T) {
	// Six 30-day months of tenure ends probation even without confirmation.
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -181)

	got := EntitlementFor(false, joined, now)
	want := Entitlement{Annual: 24, Sick: 5, Other: 16}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	entitlement := Entitlement{Annual: 12, Sick: 5, Other: 0}
	used := Entitlement{Annual: 20, Sick: 5, Other: 3}

	remaining := RemainingFor(entitlement, used)
	if remaining.Annual != 0 || remaining.Sick != 0 || remaining.Other != 0 {
		t.Fatalf("expected zero floor, got %+v", remaining)
	}
}

func TestRemainingAfterSickLeave(t *testing.T) {
	entitlement := Entitlement{Annual: 12, Sick: 5, Other: 0}
	used := Entitlement{Sick: 5}

	remaining := RemainingFor(entitlement, used)
	want := Entitlement{Annual: 12, Sick: 0, Other: 0}
	if remaining != want {
		t.Fatalf("expected %+v, got %+v", want, remaining)
	}
}

func TestForCategory(t *testing.T) {
	e := Entitlement{Annual: 24, Sick: 5, Other: 16}
	if e.ForCategory(CategoryAnnual) != 24 {
		t.Fatalf("annual lookup failed")
	}
	if e.ForCategory(CategorySick) != 5 {
		t.Fatalf("sick lookup failed")
	}
	if e.ForCategory(CategoryOther) != 16 {
		t.Fatalf("other lookup failed")
	}
}
