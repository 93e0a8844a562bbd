package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Run struct {
	ID        string    `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LineItem struct {
	ID             string          `json:"id"`
	RunID          string          `json:"runId"`
	EmployeeID     string          `json:"employeeId"`
	Basic          decimal.Decimal `json:"basic"`
	HRA            decimal.Decimal `json:"hra"`
	OtherAllowance decimal.Decimal `json:"otherAllowance"`
	PF             decimal.Decimal `json:"pf"`
	PT             decimal.Decimal `json:"pt"`
	LOPDays        int             `json:"lopDays"`
	Gross          decimal.Decimal `json:"gross"`
	NetPay         decimal.Decimal `json:"netPay"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type Payslip struct {
	ID          string    `json:"id"`
	LineItemID  string    `json:"lineItemId"`
	FilePath    string    `json:"filePath"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// PublishResult reports the payslip batch outcome: individual render
// failures do not abort the batch.
type PublishResult struct {
	Run      Run      `json:"run"`
	Rendered int      `json:"rendered"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

type RegisterRow struct {
	EmployeeNumber string
	FirstName      string
	LastName       string
	Basic          decimal.Decimal
	HRA            decimal.Decimal
	OtherAllowance decimal.Decimal
	PF             decimal.Decimal
	PT             decimal.Decimal
	Gross          decimal.Decimal
	NetPay         decimal.Decimal
}
