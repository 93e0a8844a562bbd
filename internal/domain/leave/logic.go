package leave

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("end date must not be before start date")

const (
	probationMonths = 6
	graceDays       = 30
)

// CalculateDays counts inclusive calendar days between start and end:
// floor((end-start)/1d) + 1. A same-day request is one day.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// TenureMonths approximates tenure in 30-day units. This mirrors the
// entitlement policy, which is deliberately not calendar-month aware.
func TenureMonths(joinDate, now time.Time) int {
	if now.Before(joinDate) {
		return 0
	}
	return int(now.Sub(joinDate).Hours() / 24 / graceDays)
}

// EntitlementFor derives annual entitlement from confirmation state and
// tenure. Probationers get a reduced allocation.
func EntitlementFor(confirmed bool, joinDate, now time.Time) Entitlement {
	if !confirmed && TenureMonths(joinDate, now) < probationMonths {
		return Entitlement{Annual: 12, Sick: 5, Other: 0}
	}
	return Entitlement{Annual: 24, Sick: 5, Other: 16}
}

// RemainingFor floors each category at zero; negative balances are never
// surfaced.
func RemainingFor(entitlement, used Entitlement) Entitlement {
	return Entitlement{
		Annual: maxInt(entitlement.Annual-used.Annual, 0),
		Sick:   maxInt(entitlement.Sick-used.Sick, 0),
		Other:  maxInt(entitlement.Other-used.Other, 0),
	}
}

func (e Entitlement) ForCategory(category string) int {
	switch category {
	case CategoryAnnual:
		return e.Annual
	case CategorySick:
		return e.Sick
	default:
		return e.Other
	}
}

func (e *Entitlement) AddCategory(category string, days int) {
	switch category {
	case CategoryAnnual:
		e.Annual += days
	case CategorySick:
		e.Sick += days
	default:
		e.Other += days
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
