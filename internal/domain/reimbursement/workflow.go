package reimbursement

import (
	"errors"

	"hrops/internal/domain/auth"
)

var (
	ErrNotFound  = errors.New("reimbursement not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("reimbursement was modified concurrently")
)

type Decision struct {
	NextStatus string
	ActionTag  string
	Resolves   bool
}

// requiredStatus maps each resolving role to the exact pending status it is
// allowed to act on. Unlike leave, there is no wildcard override here: the
// chain is MANAGER -> HR -> FINANCE, strictly in order.
var requiredStatus = map[string]string{
	auth.RoleManager: StatusPendingManager,
	auth.RoleHR:      StatusPendingHR,
	auth.RoleFinance: StatusPendingFinance,
}

var approveNext = map[string]Decision{
	auth.RoleManager: {NextStatus: StatusPendingHR, ActionTag: TagApprovedByManager},
	auth.RoleHR:      {NextStatus: StatusPendingFinance, ActionTag: TagApprovedByHR},
	auth.RoleFinance: {NextStatus: StatusApproved, ActionTag: TagApprovedByFinance, Resolves: true},
}

// Decide validates the acting role against the exact current stage and
// returns the transition. Rejection from any pending stage collapses to the
// single terminal REJECTED.
func Decide(role, action, currentStatus string) (Decision, error) {
	if action != ActionApprove && action != ActionReject {
		return Decision{}, ErrForbidden
	}

	required, ok := requiredStatus[role]
	if !ok {
		return Decision{}, ErrForbidden
	}

	switch currentStatus {
	case StatusPendingManager, StatusPendingHR, StatusPendingFinance:
		if currentStatus != required {
			return Decision{}, ErrForbidden
		}
	default:
		return Decision{}, ErrForbidden
	}

	if action == ActionReject {
		return Decision{NextStatus: StatusRejected, ActionTag: TagRejected, Resolves: true}, nil
	}
	return approveNext[role], nil
}
