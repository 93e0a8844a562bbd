package timesheet

import (
	"context"
	"time"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
)

type Service struct {
	Store *Store
	Core  *core.Store
}

func NewService(store *Store, coreStore *core.Store) *Service {
	return &Service{Store: store, Core: coreStore}
}

// Save creates or updates the employee's DRAFT sheet for the week. A sheet
// that has already been submitted cannot be edited.
func (s *Service) Save(ctx context.Context, employeeID string, weekStart time.Time, hours Hours, note string) (Timesheet, error) {
	if weekStart.Weekday() != time.Monday {
		return Timesheet{}, ErrNotWeekStart
	}
	if err := hours.Validate(); err != nil {
		return Timesheet{}, err
	}

	existing, err := s.Store.ForWeek(ctx, employeeID, weekStart)
	if err == nil {
		if existing.Status != StatusDraft && existing.Status != StatusRejected {
			return Timesheet{}, ErrInvalidState
		}
		if existing.Status == StatusRejected {
			// A rejected sheet reopens as a draft on edit.
			if err := s.Store.Transition(ctx, existing.ID, existing.Version, StatusDraft, ""); err != nil {
				return Timesheet{}, err
			}
			existing.Version++
		}
		if err := s.Store.UpdateDraft(ctx, existing.ID, existing.Version, hours, note); err != nil {
			return Timesheet{}, err
		}
		existing.Hours = hours
		existing.Note = note
		existing.Status = StatusDraft
		existing.Version++
		return existing, nil
	}
	if err != ErrNotFound {
		return Timesheet{}, err
	}

	ts := Timesheet{
		EmployeeID: employeeID,
		WeekStart:  weekStart,
		Hours:      hours,
		Note:       note,
		Status:     StatusDraft,
	}
	id, err := s.Store.Create(ctx, ts)
	if err != nil {
		return Timesheet{}, err
	}
	ts.ID = id
	ts.Version = 1
	return ts, nil
}

func (s *Service) Submit(ctx context.Context, timesheetID, employeeID string) (Timesheet, error) {
	ts, err := s.Store.Get(ctx, timesheetID)
	if err != nil {
		return Timesheet{}, err
	}
	if ts.EmployeeID != employeeID {
		return Timesheet{}, ErrForbidden
	}
	if ts.Status != StatusDraft {
		return Timesheet{}, ErrInvalidState
	}
	if err := s.Store.Transition(ctx, ts.ID, ts.Version, StatusSubmitted, ""); err != nil {
		return Timesheet{}, err
	}
	ts.Status = StatusSubmitted
	ts.Version++
	return ts, nil
}

// Review approves or rejects a SUBMITTED sheet. Managers may only review
// their direct reports; HR and ADMIN review anyone.
func (s *Service) Review(ctx context.Context, timesheetID, actorUserID, role string, approve bool) (Timesheet, error) {
	ts, err := s.Store.Get(ctx, timesheetID)
	if err != nil {
		return Timesheet{}, err
	}
	if ts.Status != StatusSubmitted {
		return Timesheet{}, ErrInvalidState
	}

	switch role {
	case auth.RoleManager:
		actorEmployeeID, err := s.Core.EmployeeIDByUserID(ctx, actorUserID)
		if err != nil {
			return Timesheet{}, err
		}
		isManager, err := s.Core.IsManagerOf(ctx, actorEmployeeID, ts.EmployeeID)
		if err != nil {
			return Timesheet{}, err
		}
		if !isManager {
			return Timesheet{}, ErrForbidden
		}
	case auth.RoleHR, auth.RoleAdmin:
	default:
		return Timesheet{}, ErrForbidden
	}

	nextStatus := StatusRejected
	approvedBy := ""
	if approve {
		nextStatus = StatusApproved
		approvedBy = actorUserID
	}
	if err := s.Store.Transition(ctx, ts.ID, ts.Version, nextStatus, approvedBy); err != nil {
		return Timesheet{}, err
	}
	ts.Status = nextStatus
	ts.ApprovedBy = approvedBy
	ts.Version++
	return ts, nil
}
