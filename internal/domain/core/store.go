package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  id, COALESCE(user_id::text, ''), employee_number, first_name, last_name, email,
  COALESCE(phone, ''), COALESCE(manager_id::text, ''), join_date, confirmed,
  basic_salary, hra, other_allowance, pf, pt,
  COALESCE(in_time, ''), COALESCE(out_time, ''), status, created_at, updated_at
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.ManagerID, &e.JoinDate, &e.Confirmed,
		&e.BasicSalary, &e.HRA, &e.OtherAllowance, &e.PF, &e.PT,
		&e.InTime, &e.OutTime, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (s *Store) Get(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", employeeID)
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return employee, err
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE user_id = $1", userID)
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return employee, err
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// IsManagerOf reports whether managerEmployeeID is the direct manager of
// employeeID. The reporting chain is one hop only.
func (s *Store) IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE id = $1 AND manager_id = $2
  `, employeeID, managerEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY employee_number
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, employee)
	}
	return employees, total, nil
}

func (s *Store) Subordinates(ctx context.Context, managerEmployeeID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE manager_id = $1
    ORDER BY employee_number
  `, managerEmployeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Store) Create(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, phone,
                           manager_id, join_date, confirmed, basic_salary, hra, other_allowance,
                           pf, pt, in_time, out_time, status)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, NULLIF($7,'')::uuid, $8, $9, $10, $11, $12, $13, $14, NULLIF($15,''), NULLIF($16,''), $17)
    RETURNING id
  `, e.UserID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Phone,
		e.ManagerID, e.JoinDate, e.Confirmed, e.BasicSalary, e.HRA, e.OtherAllowance,
		e.PF, e.PT, e.InTime, e.OutTime, e.Status).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, phone = $4,
        manager_id = NULLIF($5,'')::uuid, join_date = $6, confirmed = $7,
        basic_salary = $8, hra = $9, other_allowance = $10, pf = $11, pt = $12,
        in_time = NULLIF($13,''), out_time = NULLIF($14,''), status = $15,
        updated_at = now()
    WHERE id = $16
  `, e.FirstName, e.LastName, e.Email, e.Phone,
		e.ManagerID, e.JoinDate, e.Confirmed,
		e.BasicSalary, e.HRA, e.OtherAllowance, e.PF, e.PT,
		e.InTime, e.OutTime, e.Status, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Deactivate(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, updated_at = now() WHERE id = $2
  `, EmployeeStatusInactive, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UserEmail resolves the login email attached to an employee, used for
// notification delivery. Empty when the employee has no linked user.
func (s *Store) UserEmail(ctx context.Context, employeeID string) (string, string, error) {
	var userID, emailAddr string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(u.id::text, ''), COALESCE(u.email, '')
    FROM employees e
    LEFT JOIN users u ON e.user_id = u.id
    WHERE e.id = $1
  `, employeeID).Scan(&userID, &emailAddr)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", fmt.Errorf("employee %s: %w", employeeID, ErrNotFound)
	}
	return userID, emailAddr, err
}
