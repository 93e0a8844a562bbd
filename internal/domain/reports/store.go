package reports

import (
	"context"
	"time"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// LeaveUsageRow totals approved leave days per employee and category over a
// calendar year.
type LeaveUsageRow struct {
	EmployeeNumber string `json:"employeeNumber"`
	EmployeeName   string `json:"employeeName"`
	Category       string `json:"category"`
	Days           int    `json:"days"`
}

func (s *Store) LeaveUsage(ctx context.Context, year int) ([]LeaveUsageRow, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.DB.Query(ctx, `
    SELECT e.employee_number, e.first_name || ' ' || e.last_name, t.category,
           COALESCE(SUM(r.days), 0)
    FROM leave_requests r
    JOIN employees e ON e.id = r.employee_id
    JOIN leave_types t ON t.id = r.leave_type_id
    WHERE r.status = 'APPROVED' AND r.start_date >= $1 AND r.start_date < $2
    GROUP BY e.employee_number, e.first_name, e.last_name, t.category
    ORDER BY e.employee_number, t.category
  `, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveUsageRow
	for rows.Next() {
		var r LeaveUsageRow
		if err := rows.Scan(&r.EmployeeNumber, &r.EmployeeName, &r.Category, &r.Days); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) JobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	query := `
    SELECT id, job_type, status, COALESCE(details_json::text, '{}'), started_at, completed_at
    FROM job_runs
  `
	args := []any{}
	if jobType != "" {
		query += " WHERE job_type = $1"
		args = append(args, jobType)
	}
	if len(args) == 0 {
		query += " ORDER BY started_at DESC LIMIT $1 OFFSET $2"
	} else {
		query += " ORDER BY started_at DESC LIMIT $2 OFFSET $3"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var id, jtype, status, details string
		var startedAt time.Time
		var completedAt *time.Time
		if err := rows.Scan(&id, &jtype, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"id":          id,
			"jobType":     jtype,
			"status":      status,
			"details":     details,
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return out, nil
}
