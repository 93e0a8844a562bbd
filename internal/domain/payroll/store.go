package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRun(ctx context.Context, month, year int) (Run, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs (month, year, status)
    VALUES ($1,$2,$3)
    ON CONFLICT (month, year) DO NOTHING
    RETURNING id, month, year, status, version, created_at, updated_at
  `, month, year, RunStatusDraft)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunExists
	}
	return run, err
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Month, &r.Year, &r.Status, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.DB.QueryRow(ctx,
		"SELECT id, month, year, status, version, created_at, updated_at FROM payroll_runs WHERE id = $1", id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT id, month, year, status, version, created_at, updated_at FROM payroll_runs ORDER BY year DESC, month DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (s *Store) TransitionRun(ctx context.Context, id string, version int, nextStatus string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET status = $1, version = version + 1, updated_at = now()
    WHERE id = $2 AND version = $3
  `, nextStatus, id, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// SalaryProfiles loads every active employee with a configured basic salary,
// the population a calculation run covers.
func (s *Store) SalaryProfiles(ctx context.Context) (map[string]SalaryProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, basic_salary, hra, other_allowance, pf, pt
    FROM employees
    WHERE status = 'ACTIVE' AND basic_salary IS NOT NULL AND basic_salary > 0
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := map[string]SalaryProfile{}
	for rows.Next() {
		var employeeID string
		var p SalaryProfile
		if err := rows.Scan(&employeeID, &p.Basic, &p.HRA, &p.OtherAllowance, &p.PF, &p.PT); err != nil {
			return nil, err
		}
		profiles[employeeID] = p
	}
	return profiles, nil
}

// ReplaceLineItems drops and reinserts the run's line items in one
// transaction, so a recalculation is all-or-nothing.
func (s *Store) ReplaceLineItems(ctx context.Context, runID string, items []LineItem) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM payroll_line_items WHERE run_id = $1", runID); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_line_items (run_id, employee_id, basic, hra, other_allowance, pf, pt, lop_days, gross, net_pay)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, runID, item.EmployeeID, item.Basic, item.HRA, item.OtherAllowance,
			item.PF, item.PT, item.LOPDays, item.Gross, item.NetPay); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const lineItemColumns = `
  id, run_id, employee_id, basic, hra, other_allowance, pf, pt, lop_days, gross, net_pay, created_at
`

func scanLineItem(row pgx.Row) (LineItem, error) {
	var item LineItem
	err := row.Scan(&item.ID, &item.RunID, &item.EmployeeID, &item.Basic, &item.HRA,
		&item.OtherAllowance, &item.PF, &item.PT, &item.LOPDays, &item.Gross, &item.NetPay, &item.CreatedAt)
	return item, err
}

func (s *Store) ListItems(ctx context.Context, runID string) ([]LineItem, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+lineItemColumns+" FROM payroll_line_items WHERE run_id = $1 ORDER BY created_at", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, id string) (LineItem, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+lineItemColumns+" FROM payroll_line_items WHERE id = $1", id)
	item, err := scanLineItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LineItem{}, ErrItemNotFound
	}
	return item, err
}

func (s *Store) CountItems(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_line_items WHERE run_id = $1", runID).Scan(&count)
	return count, err
}

func (s *Store) UpdateItemLOP(ctx context.Context, id string, lopDays int) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE payroll_line_items SET lop_days = $1 WHERE id = $2", lopDays, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Store) UpsertPayslip(ctx context.Context, lineItemID, filePath string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payslips (line_item_id, file_path)
    VALUES ($1,$2)
    ON CONFLICT (line_item_id) DO UPDATE SET file_path = EXCLUDED.file_path, generated_at = now()
  `, lineItemID, filePath)
	return err
}

// PayslipRecord joins the payslip with enough of its line item to authorize
// and label a download.
type PayslipRecord struct {
	Payslip
	EmployeeID string `json:"employeeId"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	NetPay     string `json:"netPay"`
}

const payslipRecordQuery = `
  SELECT p.id, p.line_item_id, p.file_path, p.generated_at,
         i.employee_id, r.month, r.year, i.net_pay::text
  FROM payslips p
  JOIN payroll_line_items i ON i.id = p.line_item_id
  JOIN payroll_runs r ON r.id = i.run_id
`

func (s *Store) GetPayslip(ctx context.Context, id string) (PayslipRecord, error) {
	row := s.DB.QueryRow(ctx, payslipRecordQuery+" WHERE p.id = $1", id)
	var rec PayslipRecord
	err := row.Scan(&rec.ID, &rec.LineItemID, &rec.FilePath, &rec.GeneratedAt,
		&rec.EmployeeID, &rec.Month, &rec.Year, &rec.NetPay)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayslipRecord{}, ErrItemNotFound
	}
	return rec, err
}

func (s *Store) PayslipsForEmployee(ctx context.Context, employeeID string) ([]PayslipRecord, error) {
	rows, err := s.DB.Query(ctx,
		payslipRecordQuery+" WHERE i.employee_id = $1 ORDER BY r.year DESC, r.month DESC", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayslipRecord
	for rows.Next() {
		var rec PayslipRecord
		if err := rows.Scan(&rec.ID, &rec.LineItemID, &rec.FilePath, &rec.GeneratedAt,
			&rec.EmployeeID, &rec.Month, &rec.Year, &rec.NetPay); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// PayslipPDFData is everything the renderer needs for one payslip.
type PayslipPDFData struct {
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Month          int
	Year           int
	Item           LineItem
}

func (s *Store) PayslipPDFData(ctx context.Context, item LineItem) (PayslipPDFData, error) {
	data := PayslipPDFData{Item: item}
	err := s.DB.QueryRow(ctx, `
    SELECT e.employee_number, e.first_name, e.last_name, e.email, r.month, r.year
    FROM employees e, payroll_runs r
    WHERE e.id = $1 AND r.id = $2
  `, item.EmployeeID, item.RunID).Scan(&data.EmployeeNumber, &data.FirstName, &data.LastName,
		&data.Email, &data.Month, &data.Year)
	if err != nil {
		return PayslipPDFData{}, err
	}
	return data, nil
}

func (s *Store) RegisterRows(ctx context.Context, runID string) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.employee_number, e.first_name, e.last_name,
           i.basic, i.hra, i.other_allowance, i.pf, i.pt, i.gross, i.net_pay
    FROM payroll_line_items i
    JOIN employees e ON e.id = i.employee_id
    WHERE i.run_id = $1
    ORDER BY e.employee_number
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var r RegisterRow
		if err := rows.Scan(&r.EmployeeNumber, &r.FirstName, &r.LastName,
			&r.Basic, &r.HRA, &r.OtherAllowance, &r.PF, &r.PT, &r.Gross, &r.NetPay); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
