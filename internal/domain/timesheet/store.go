package timesheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const timesheetColumns = `
  id, employee_id, week_start, hours, COALESCE(note, ''), status,
  COALESCE(approved_by::text, ''), version, created_at, updated_at
`

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var ts Timesheet
	var hoursJSON []byte
	err := row.Scan(&ts.ID, &ts.EmployeeID, &ts.WeekStart, &hoursJSON, &ts.Note,
		&ts.Status, &ts.ApprovedBy, &ts.Version, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return Timesheet{}, err
	}
	if err := json.Unmarshal(hoursJSON, &ts.Hours); err != nil {
		return Timesheet{}, fmt.Errorf("decode timesheet hours: %w", err)
	}
	return ts, nil
}

func (s *Store) Get(ctx context.Context, id string) (Timesheet, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+timesheetColumns+" FROM timesheets WHERE id = $1", id)
	ts, err := scanTimesheet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrNotFound
	}
	return ts, err
}

type Filter struct {
	EmployeeID        string
	ManagerEmployeeID string
	Status            string
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Timesheet, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ManagerEmployeeID != "" {
		args = append(args, filter.ManagerEmployeeID)
		where += fmt.Sprintf(" AND employee_id IN (SELECT id FROM employees WHERE manager_id = $%d)", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM timesheets"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := "SELECT " + timesheetColumns + " FROM timesheets" + where +
		fmt.Sprintf(" ORDER BY week_start DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ts)
	}
	return out, total, nil
}

func (s *Store) ForWeek(ctx context.Context, employeeID string, weekStart time.Time) (Timesheet, error) {
	row := s.DB.QueryRow(ctx,
		"SELECT "+timesheetColumns+" FROM timesheets WHERE employee_id = $1 AND week_start = $2",
		employeeID, weekStart.Format("2006-01-02"))
	ts, err := scanTimesheet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrNotFound
	}
	return ts, err
}

func (s *Store) Create(ctx context.Context, ts Timesheet) (string, error) {
	hoursJSON, err := json.Marshal(ts.Hours)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (employee_id, week_start, hours, note, status)
    VALUES ($1,$2,$3,NULLIF($4,''),$5)
    RETURNING id
  `, ts.EmployeeID, ts.WeekStart.Format("2006-01-02"), hoursJSON, ts.Note, ts.Status).Scan(&id)
	return id, err
}

// UpdateDraft replaces hours and note while the sheet is still DRAFT.
func (s *Store) UpdateDraft(ctx context.Context, id string, version int, hours Hours, note string) error {
	hoursJSON, err := json.Marshal(hours)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET hours = $1, note = NULLIF($2,''), version = version + 1, updated_at = now()
    WHERE id = $3 AND version = $4 AND status = $5
  `, hoursJSON, note, id, version, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Store) Transition(ctx context.Context, id string, version int, nextStatus, approvedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $1, approved_by = COALESCE(NULLIF($2,'')::uuid, approved_by),
        version = version + 1, updated_at = now()
    WHERE id = $3 AND version = $4
  `, nextStatus, approvedBy, id, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}
