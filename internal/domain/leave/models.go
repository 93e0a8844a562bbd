package leave

import "time"

type LeaveType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Category  string    `json:"category"`
	IsPaid    bool      `json:"isPaid"`
	CreatedAt time.Time `json:"createdAt"`
}

type LeaveRequest struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	LeaveTypeID string    `json:"leaveTypeId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Days        int       `json:"days"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	ManagerID   string    `json:"managerId,omitempty"`
	HRID        string    `json:"hrId,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LeaveAction is an immutable audit row; one is appended per state
// transition, including the initial APPLY.
type LeaveAction struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leaveRequestId"`
	UserID         string    `json:"userId"`
	Role           string    `json:"role"`
	Action         string    `json:"action"`
	Comments       string    `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Entitlement struct {
	Annual int `json:"annual"`
	Sick   int `json:"sick"`
	Other  int `json:"other"`
}

type Balance struct {
	Entitlement Entitlement `json:"entitlement"`
	Used        Entitlement `json:"used"`
	Remaining   Entitlement `json:"remaining"`
}
