package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"hrops/internal/domain/attendance"
	"hrops/internal/domain/payroll"
)

type Service struct {
	Store      *Store
	Attendance *attendance.Store
	Payroll    *payroll.Store
}

func NewService(store *Store, attendanceStore *attendance.Store, payrollStore *payroll.Store) *Service {
	return &Service{Store: store, Attendance: attendanceStore, Payroll: payrollStore}
}

func (s *Service) LeaveUsage(ctx context.Context, year int) ([]LeaveUsageRow, error) {
	return s.Store.LeaveUsage(ctx, year)
}

func (s *Service) AttendanceSummary(ctx context.Context, from, to time.Time) ([]attendance.Summary, error) {
	return s.Attendance.Summarize(ctx, from, to)
}

// WritePayrollRegister streams the run's line items as CSV, one row per
// employee.
func (s *Service) WritePayrollRegister(ctx context.Context, runID string, w io.Writer) error {
	rows, err := s.Payroll.RegisterRows(ctx, runID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"employee_number", "first_name", "last_name",
		"basic", "hra", "other_allowance", "pf", "pt", "gross", "net_pay"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.EmployeeNumber, r.FirstName, r.LastName,
			r.Basic.StringFixed(2), r.HRA.StringFixed(2), r.OtherAllowance.StringFixed(2),
			r.PF.StringFixed(2), r.PT.StringFixed(2), r.Gross.StringFixed(2), r.NetPay.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLeaveUsageCSV renders the leave usage report as CSV.
func (s *Service) WriteLeaveUsageCSV(ctx context.Context, year int, w io.Writer) error {
	rows, err := s.Store.LeaveUsage(ctx, year)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"employee_number", "employee_name", "category", "days"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.EmployeeNumber, r.EmployeeName, r.Category, strconv.Itoa(r.Days)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAttendanceSummaryCSV renders the attendance summary as CSV.
func (s *Service) WriteAttendanceSummaryCSV(ctx context.Context, from, to time.Time, w io.Writer) error {
	rows, err := s.Attendance.Summarize(ctx, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"employee_id", "employee_name", "present", "late", "half_day", "absent", "total_hours"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.EmployeeID, r.EmployeeName,
			strconv.Itoa(r.Present), strconv.Itoa(r.Late), strconv.Itoa(r.HalfDay), strconv.Itoa(r.Absent),
			fmt.Sprintf("%.2f", r.TotalHours),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *Service) JobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	return s.Store.JobRuns(ctx, jobType, limit, offset)
}
