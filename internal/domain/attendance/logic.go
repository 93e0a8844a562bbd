package attendance

import "time"

const (
	halfDayThreshold = 4 * time.Hour
	lateGrace        = 15 * time.Minute
)

// Classify derives the day's status from the closed punch. Short days win
// over lateness: under four worked hours is HALF_DAY regardless of when the
// employee arrived. scheduledIn is the "HH:MM" in_time from the employee
// record; an unparseable or empty value disables the LATE check.
func Classify(inAt, outAt time.Time, scheduledIn string) (status string, workedHours float64) {
	worked := outAt.Sub(inAt)
	workedHours = worked.Hours()

	if worked < halfDayThreshold {
		return StatusHalfDay, workedHours
	}

	if cutoff, ok := scheduledCutoff(inAt, scheduledIn); ok && inAt.After(cutoff) {
		return StatusLate, workedHours
	}
	return StatusPresent, workedHours
}

// DayOf collapses a punch instant to its calendar day in the instant's own
// location. Truncating against the UTC epoch would land punches near local
// midnight on the neighboring date row.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func scheduledCutoff(day time.Time, scheduledIn string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", scheduledIn)
	if err != nil {
		return time.Time{}, false
	}
	cutoff := time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
	return cutoff.Add(lateGrace), true
}
