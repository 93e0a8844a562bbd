package leave

import (
	"errors"

	"hrops/internal/domain/auth"
)

var (
	ErrNotFound  = errors.New("leave request not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("leave request was modified concurrently")
)

// Decision describes the outcome of a workflow step: the status to move to,
// the audit tag to append, and which reviewer column to stamp.
type Decision struct {
	NextStatus   string
	ActionTag    string
	StampManager bool
	StampHR      bool
}

// Decide resolves the next state for an acting role against the request's
// current status. Only the role matching the current pending stage may act;
// ADMIN overrides the stage gate in any status and always produces a
// terminal outcome.
func Decide(role, action, currentStatus string) (Decision, error) {
	if action != ActionApprove && action != ActionReject {
		return Decision{}, ErrForbidden
	}

	switch role {
	case auth.RoleAdmin:
		if action == ActionApprove {
			return Decision{NextStatus: StatusApproved, ActionTag: TagApprovedByAdmin}, nil
		}
		return Decision{NextStatus: StatusRejectedByAdmin, ActionTag: TagRejectedByAdmin}, nil

	case auth.RoleManager:
		if currentStatus != StatusPendingManager {
			return Decision{}, ErrForbidden
		}
		if action == ActionApprove {
			return Decision{NextStatus: StatusPendingHR, ActionTag: TagApprovedByManager, StampManager: true}, nil
		}
		return Decision{NextStatus: StatusRejectedByManager, ActionTag: TagRejectedByManager, StampManager: true}, nil

	case auth.RoleHR:
		if currentStatus != StatusPendingHR {
			return Decision{}, ErrForbidden
		}
		if action == ActionApprove {
			return Decision{NextStatus: StatusApproved, ActionTag: TagApprovedByHR, StampHR: true}, nil
		}
		return Decision{NextStatus: StatusRejectedByHR, ActionTag: TagRejectedByHR, StampHR: true}, nil
	}

	return Decision{}, ErrForbidden
}
