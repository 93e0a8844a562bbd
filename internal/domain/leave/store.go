package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, code, category, is_paid, created_at
    FROM leave_types
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.Category, &t.IsPaid, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (s *Store) CreateType(ctx context.Context, payload LeaveType) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (name, code, category, is_paid)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, payload.Name, payload.Code, payload.Category, payload.IsPaid).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) TypeCategory(ctx context.Context, leaveTypeID string) (string, error) {
	var category string
	err := s.DB.QueryRow(ctx, "SELECT category FROM leave_types WHERE id = $1", leaveTypeID).Scan(&category)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return category, err
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, leave_type_id, start_date, end_date, days, COALESCE(reason, ''),
           status, COALESCE(manager_id::text, ''), COALESCE(hr_id::text, ''), version, created_at, updated_at
    FROM leave_requests
    WHERE id = $1
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.Days, &req.Reason, &req.Status, &req.ManagerID, &req.HRID, &req.Version, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	return req, err
}

type RequestFilter struct {
	EmployeeID        string
	ManagerEmployeeID string
	Status            string
}

func (s *Store) ListRequests(ctx context.Context, filter RequestFilter, limit, offset int) ([]LeaveRequest, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += " AND lr.employee_id = $1"
	}
	if filter.ManagerEmployeeID != "" {
		args = append(args, filter.ManagerEmployeeID)
		where += fmt.Sprintf(" AND lr.employee_id IN (SELECT id FROM employees WHERE manager_id = $%d)", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests lr"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `
    SELECT lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.days,
           COALESCE(lr.reason, ''), lr.status, COALESCE(lr.manager_id::text, ''),
           COALESCE(lr.hr_id::text, ''), lr.version, lr.created_at, lr.updated_at
    FROM leave_requests lr` + where + fmt.Sprintf(`
    ORDER BY lr.created_at DESC
    LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
			&req.Days, &req.Reason, &req.Status, &req.ManagerID, &req.HRID, &req.Version, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, nil
}

func (s *Store) CreateRequest(ctx context.Context, req LeaveRequest) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type_id, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.Days, req.Reason, req.Status).Scan(&id)
	return id, err
}

// TransitionRequest performs the optimistic status update. It reports
// ErrConflict when the version no longer matches, which means another
// approver won the race.
func (s *Store) TransitionRequest(ctx context.Context, requestID string, version int, decision Decision, actorUserID string) error {
	query := "UPDATE leave_requests SET status = $1, version = version + 1, updated_at = now()"
	args := []any{decision.NextStatus}
	if decision.StampManager {
		args = append(args, actorUserID)
		query += fmt.Sprintf(", manager_id = $%d", len(args))
	}
	if decision.StampHR {
		args = append(args, actorUserID)
		query += fmt.Sprintf(", hr_id = $%d", len(args))
	}
	args = append(args, requestID, version)
	query += fmt.Sprintf(" WHERE id = $%d AND version = $%d", len(args)-1, len(args))

	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Store) AppendAction(ctx context.Context, requestID, userID, role, action, comments string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_actions (leave_request_id, user_id, role, action, comments)
    VALUES ($1,$2,$3,$4,$5)
  `, requestID, userID, role, action, comments)
	return err
}

func (s *Store) ListActions(ctx context.Context, requestID string) ([]LeaveAction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, leave_request_id, user_id, role, action, COALESCE(comments, ''), created_at
    FROM leave_actions
    WHERE leave_request_id = $1
    ORDER BY created_at
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []LeaveAction
	for rows.Next() {
		var a LeaveAction
		if err := rows.Scan(&a.ID, &a.LeaveRequestID, &a.UserID, &a.Role, &a.Action, &a.Comments, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// UsedDays sums approved leave days per category for an employee.
func (s *Store) UsedDays(ctx context.Context, employeeID string) (Entitlement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lt.category, COALESCE(SUM(lr.days), 0)
    FROM leave_requests lr
    JOIN leave_types lt ON lr.leave_type_id = lt.id
    WHERE lr.employee_id = $1 AND lr.status = $2
    GROUP BY lt.category
  `, employeeID, StatusApproved)
	if err != nil {
		return Entitlement{}, err
	}
	defer rows.Close()

	var used Entitlement
	for rows.Next() {
		var category string
		var days int
		if err := rows.Scan(&category, &days); err != nil {
			return Entitlement{}, err
		}
		used.AddCategory(category, days)
	}
	return used, nil
}
