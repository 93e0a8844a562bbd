package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
)

var ErrInsufficientBalance = errors.New("insufficient leave balance")

type Service struct {
	Store *Store
	Core  *core.Store
}

func NewService(store *Store, coreStore *core.Store) *Service {
	return &Service{Store: store, Core: coreStore}
}

// BalanceFor computes entitlement, used and remaining days for an employee.
func (s *Service) BalanceFor(ctx context.Context, employeeID string, now time.Time) (Balance, error) {
	employee, err := s.Core.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, err
	}

	joinDate := now
	if employee.JoinDate != nil {
		joinDate = *employee.JoinDate
	}
	entitlement := EntitlementFor(employee.Confirmed, joinDate, now)

	used, err := s.Store.UsedDays(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Entitlement: entitlement,
		Used:        used,
		Remaining:   RemainingFor(entitlement, used),
	}, nil
}

// Apply validates the date range against the employee's remaining balance
// for the type's category and records the request together with the initial
// APPLY audit action. The request lands in PENDING_MANAGER, or directly in
// PENDING_HR when the employee has no manager to route through.
func (s *Service) Apply(ctx context.Context, employeeID, leaveTypeID, reason string, startDate, endDate time.Time, actorUserID string) (LeaveRequest, error) {
	days, err := CalculateDays(startDate, endDate)
	if err != nil {
		return LeaveRequest{}, err
	}

	category, err := s.Store.TypeCategory(ctx, leaveTypeID)
	if err != nil {
		return LeaveRequest{}, err
	}

	balance, err := s.BalanceFor(ctx, employeeID, time.Now())
	if err != nil {
		return LeaveRequest{}, err
	}
	remaining := balance.Remaining.ForCategory(category)
	if days > remaining {
		return LeaveRequest{}, fmt.Errorf("%w: requested %d days, %d remaining in %s",
			ErrInsufficientBalance, days, remaining, strings.ToLower(category))
	}

	employee, err := s.Core.Get(ctx, employeeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	status := StatusPendingManager
	if employee.ManagerID == "" {
		status = StatusPendingHR
	}

	req := LeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        days,
		Reason:      reason,
		Status:      status,
	}
	id, err := s.Store.CreateRequest(ctx, req)
	if err != nil {
		return LeaveRequest{}, err
	}
	req.ID = id
	req.Version = 1

	if err := s.Store.AppendAction(ctx, id, actorUserID, auth.RoleEmployee, ActionApply, reason); err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// Resolve advances a request by one workflow step on behalf of the acting
// user. Managers may only act on their own reports. The status update is
// version-guarded; a concurrent approval surfaces as ErrConflict rather
// than a silent lost update.
func (s *Service) Resolve(ctx context.Context, requestID, actorUserID, role, action, comments string) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}

	if role == auth.RoleManager {
		actorEmployeeID, err := s.Core.EmployeeIDByUserID(ctx, actorUserID)
		if err != nil {
			return LeaveRequest{}, err
		}
		isManager, err := s.Core.IsManagerOf(ctx, actorEmployeeID, req.EmployeeID)
		if err != nil {
			return LeaveRequest{}, err
		}
		if !isManager {
			return LeaveRequest{}, ErrForbidden
		}
	}

	decision, err := Decide(role, action, req.Status)
	if err != nil {
		return LeaveRequest{}, err
	}

	if err := s.Store.TransitionRequest(ctx, requestID, req.Version, decision, actorUserID); err != nil {
		return LeaveRequest{}, err
	}

	if err := s.Store.AppendAction(ctx, requestID, actorUserID, role, decision.ActionTag, comments); err != nil {
		return LeaveRequest{}, err
	}

	req.Status = decision.NextStatus
	req.Version++
	if decision.StampManager {
		req.ManagerID = actorUserID
	}
	if decision.StampHR {
		req.HRID = actorUserID
	}
	return req, nil
}
