package attendance

import "time"

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusHalfDay = "HALF_DAY"
	StatusAbsent  = "ABSENT"
)

type Attendance struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Date        time.Time  `json:"date"`
	InAt        *time.Time `json:"inAt,omitempty"`
	OutAt       *time.Time `json:"outAt,omitempty"`
	InLat       *float64   `json:"inLat,omitempty"`
	InLon       *float64   `json:"inLon,omitempty"`
	OutLat      *float64   `json:"outLat,omitempty"`
	OutLon      *float64   `json:"outLon,omitempty"`
	InAddress   string     `json:"inAddress,omitempty"`
	OutAddress  string     `json:"outAddress,omitempty"`
	SelfieURL   string     `json:"selfieUrl,omitempty"`
	Status      string     `json:"status"`
	WorkedHours float64    `json:"workedHours"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PunchResult carries the record plus degradation signals: a punch is never
// rejected because the selfie upload or reverse geocode failed, but the
// caller gets to see what was skipped.
type PunchResult struct {
	Attendance     Attendance `json:"attendance"`
	SelfieUploaded bool       `json:"selfieUploaded"`
	Warnings       []string   `json:"warnings,omitempty"`
}
