package reimbursement

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

const reimbursementColumns = `
  id, employee_id, amount, COALESCE(description, ''), COALESCE(receipt_url, ''),
  status, COALESCE(resolved_by::text, ''), resolved_at, COALESCE(notes, ''),
  version, created_at, updated_at
`

func scanReimbursement(row pgx.Row) (Reimbursement, error) {
	var r Reimbursement
	err := row.Scan(&r.ID, &r.EmployeeID, &r.Amount, &r.Description, &r.ReceiptURL,
		&r.Status, &r.ResolvedBy, &r.ResolvedAt, &r.Notes, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) Get(ctx context.Context, id string) (Reimbursement, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+reimbursementColumns+" FROM reimbursements WHERE id = $1", id)
	reimbursement, err := scanReimbursement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reimbursement{}, ErrNotFound
	}
	return reimbursement, err
}

type Filter struct {
	EmployeeID        string
	ManagerEmployeeID string
	Status            string
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Reimbursement, int, error) {
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
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM reimbursements"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := "SELECT " + reimbursementColumns + " FROM reimbursements" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Reimbursement
	for rows.Next() {
		reimbursement, err := scanReimbursement(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, reimbursement)
	}
	return out, total, nil
}

func (s *Store) Create(ctx context.Context, r Reimbursement) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO reimbursements (employee_id, amount, description, receipt_url, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, r.EmployeeID, r.Amount, r.Description, r.ReceiptURL, StatusPendingManager).Scan(&id)
	return id, err
}

// Transition applies the version-guarded status update; terminal outcomes
// also stamp resolved_by/resolved_at/notes.
func (s *Store) Transition(ctx context.Context, id string, version int, decision Decision, actorUserID, notes string) error {
	var query string
	args := []any{decision.NextStatus}
	if decision.Resolves {
		args = append(args, actorUserID, notes)
		query = `
      UPDATE reimbursements
      SET status = $1, resolved_by = $2, resolved_at = now(), notes = NULLIF($3,''),
          version = version + 1, updated_at = now()
    `
	} else {
		query = `
      UPDATE reimbursements
      SET status = $1, version = version + 1, updated_at = now()
    `
	}
	args = append(args, id, version)
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

func (s *Store) AppendAction(ctx context.Context, reimbursementID, userID, role, action, comments string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO reimbursement_actions (reimbursement_id, user_id, role, action, comments)
    VALUES ($1,$2,$3,$4,$5)
  `, reimbursementID, userID, role, action, comments)
	return err
}

func (s *Store) ListActions(ctx context.Context, reimbursementID string) ([]Action, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, reimbursement_id, user_id, role, action, COALESCE(comments, ''), created_at
    FROM reimbursement_actions
    WHERE reimbursement_id = $1
    ORDER BY created_at
  `, reimbursementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.ReimbursementID, &a.UserID, &a.Role, &a.Action, &a.Comments, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
