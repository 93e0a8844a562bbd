package reimbursement

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPendingManager = "PENDING_MANAGER"
	StatusPendingHR      = "PENDING_HR"
	StatusPendingFinance = "PENDING_FINANCE"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"

	TagSubmitted         = "SUBMITTED"
	TagApprovedByManager = "APPROVED_BY_MANAGER"
	TagApprovedByHR      = "APPROVED_BY_HR"
	TagApprovedByFinance = "APPROVED_BY_FINANCE"
	TagRejected          = "REJECTED"
)

type Reimbursement struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	ReceiptURL  string          `json:"receiptUrl,omitempty"`
	Status      string          `json:"status"`
	ResolvedBy  string          `json:"resolvedById,omitempty"`
	ResolvedAt  *time.Time      `json:"resolvedAt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Action struct {
	ID              string    `json:"id"`
	ReimbursementID string    `json:"reimbursementId"`
	UserID          string    `json:"userId"`
	Role            string    `json:"role"`
	Action          string    `json:"action"`
	Comments        string    `json:"comments,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Terminal reports whether no further resolution is possible. REJECTED is a
// single absorbing state reachable from any pending stage; the rejecting
// stage is recoverable from the action trail.
func Terminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
