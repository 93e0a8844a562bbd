package core

import "time"

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	ManagerID      string     `json:"managerId,omitempty"`
	JoinDate       *time.Time `json:"joinDate,omitempty"`
	Confirmed      bool       `json:"confirmed"`
	BasicSalary    *float64   `json:"basicSalary,omitempty"`
	HRA            *float64   `json:"hra,omitempty"`
	OtherAllowance *float64   `json:"otherAllowance,omitempty"`
	PF             *float64   `json:"pf,omitempty"`
	PT             *float64   `json:"pt,omitempty"`
	InTime         string     `json:"inTime,omitempty"`
	OutTime        string     `json:"outTime,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
)
