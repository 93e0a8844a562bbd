package payroll

import "errors"

var (
	ErrRunNotFound  = errors.New("payroll run not found")
	ErrItemNotFound = errors.New("payroll line item not found")
	ErrRunExists    = errors.New("payroll run already exists for that month")
	ErrInvalidState = errors.New("payroll run is not in a state that allows this transition")
	ErrNoLineItems  = errors.New("payroll run has no line items")
	ErrConflict     = errors.New("payroll run was modified concurrently")
)
