package reimbursement

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service struct {
	Store *Store
	Core  *core.Store
}

func NewService(store *Store, coreStore *core.Store) *Service {
	return &Service{Store: store, Core: coreStore}
}

func (s *Service) Submit(ctx context.Context, employeeID string, amount decimal.Decimal, description, receiptURL, actorUserID string) (Reimbursement, error) {
	if amount.Sign() <= 0 {
		return Reimbursement{}, ErrInvalidAmount
	}

	r := Reimbursement{
		EmployeeID:  employeeID,
		Amount:      amount,
		Description: description,
		ReceiptURL:  receiptURL,
		Status:      StatusPendingManager,
	}
	id, err := s.Store.Create(ctx, r)
	if err != nil {
		return Reimbursement{}, err
	}
	r.ID = id
	r.Version = 1

	if err := s.Store.AppendAction(ctx, id, actorUserID, auth.RoleEmployee, TagSubmitted, description); err != nil {
		return Reimbursement{}, err
	}
	return r, nil
}

// Resolve advances the three-stage chain by one step. Managers may only act
// on their direct reports; HR and FINANCE act on any employee. The update is
// version-guarded against concurrent resolvers.
func (s *Service) Resolve(ctx context.Context, reimbursementID, actorUserID, role, action, notes string) (Reimbursement, error) {
	r, err := s.Store.Get(ctx, reimbursementID)
	if err != nil {
		return Reimbursement{}, err
	}

	if role == auth.RoleManager {
		actorEmployeeID, err := s.Core.EmployeeIDByUserID(ctx, actorUserID)
		if err != nil {
			return Reimbursement{}, err
		}
		isManager, err := s.Core.IsManagerOf(ctx, actorEmployeeID, r.EmployeeID)
		if err != nil {
			return Reimbursement{}, err
		}
		if !isManager {
			return Reimbursement{}, ErrForbidden
		}
	}

	decision, err := Decide(role, action, r.Status)
	if err != nil {
		return Reimbursement{}, err
	}

	if err := s.Store.Transition(ctx, reimbursementID, r.Version, decision, actorUserID, notes); err != nil {
		return Reimbursement{}, err
	}

	if err := s.Store.AppendAction(ctx, reimbursementID, actorUserID, role, decision.ActionTag, notes); err != nil {
		return Reimbursement{}, err
	}

	r.Status = decision.NextStatus
	r.Version++
	if decision.Resolves {
		r.ResolvedBy = actorUserID
		r.Notes = notes
	}
	return r, nil
}
