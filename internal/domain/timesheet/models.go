package timesheet

import (
	"errors"
	"time"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

var (
	ErrNotFound     = errors.New("timesheet not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("timesheet was modified concurrently")
	ErrInvalidState = errors.New("timesheet is not in a state that allows this transition")
	ErrInvalidHours = errors.New("hours must have exactly 7 non-negative entries")
	ErrNotWeekStart = errors.New("weekStart must be a Monday")
)

// Hours holds one entry per weekday, Monday first.
type Hours [7]float64

func (h Hours) Validate() error {
	for _, v := range h {
		if v < 0 || v > 24 {
			return ErrInvalidHours
		}
	}
	return nil
}

func (h Hours) Total() float64 {
	var total float64
	for _, v := range h {
		total += v
	}
	return total
}

type Timesheet struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	WeekStart  time.Time `json:"weekStart"`
	Hours      Hours     `json:"hours"`
	Note       string    `json:"note,omitempty"`
	Status     string    `json:"status"`
	ApprovedBy string    `json:"approvedById,omitempty"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func Terminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
