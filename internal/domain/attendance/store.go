package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrops/internal/platform/querier"
)

var (
	ErrNotFound        = errors.New("attendance record not found")
	ErrAlreadyPunched  = errors.New("already punched in today")
	ErrNoOpenPunch     = errors.New("no open punch-in for today")
	ErrAlreadyComplete = errors.New("attendance already closed for today")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const attendanceColumns = `
  id, employee_id, date, in_at, out_at, in_lat, in_lon, out_lat, out_lon,
  COALESCE(in_address, ''), COALESCE(out_address, ''), COALESCE(selfie_url, ''),
  status, COALESCE(worked_hours, 0), created_at
`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var a Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.InAt, &a.OutAt,
		&a.InLat, &a.InLon, &a.OutLat, &a.OutLon,
		&a.InAddress, &a.OutAddress, &a.SelfieURL,
		&a.Status, &a.WorkedHours, &a.CreatedAt)
	return a, err
}

func (s *Store) ForDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error) {
	row := s.DB.QueryRow(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE employee_id = $1 AND date = $2",
		employeeID, date.Format("2006-01-02"))
	a, err := scanAttendance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, ErrNotFound
	}
	return a, err
}

func (s *Store) ForMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]Attendance, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.DB.Query(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE employee_id = $1 AND date >= $2 AND date < $3 ORDER BY date",
		employeeID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) CreatePunchIn(ctx context.Context, a Attendance) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, in_at, in_lat, in_lon, in_address, selfie_url, status)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),$8)
    ON CONFLICT (employee_id, date) DO NOTHING
    RETURNING id
  `, a.EmployeeID, a.Date.Format("2006-01-02"), a.InAt, a.InLat, a.InLon,
		a.InAddress, a.SelfieURL, a.Status).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAlreadyPunched
	}
	return id, err
}

func (s *Store) ClosePunch(ctx context.Context, id string, a Attendance) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance
    SET out_at = $1, out_lat = $2, out_lon = $3, out_address = NULLIF($4,''),
        status = $5, worked_hours = $6
    WHERE id = $7 AND out_at IS NULL
  `, a.OutAt, a.OutLat, a.OutLon, a.OutAddress, a.Status, a.WorkedHours, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyComplete
	}
	return nil
}

// Summary aggregates status counts per employee over a date range, for the
// attendance report.
type Summary struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Present      int     `json:"present"`
	Late         int     `json:"late"`
	HalfDay      int     `json:"halfDay"`
	Absent       int     `json:"absent"`
	TotalHours   float64 `json:"totalHours"`
}

func (s *Store) Summarize(ctx context.Context, from, to time.Time) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name || ' ' || e.last_name,
      COUNT(*) FILTER (WHERE a.status = 'PRESENT'),
      COUNT(*) FILTER (WHERE a.status = 'LATE'),
      COUNT(*) FILTER (WHERE a.status = 'HALF_DAY'),
      COUNT(*) FILTER (WHERE a.status = 'ABSENT'),
      COALESCE(SUM(a.worked_hours), 0)
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date >= $1 AND a.date <= $2
    GROUP BY e.id, e.first_name, e.last_name
    ORDER BY e.first_name, e.last_name
  `, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.EmployeeID, &sum.EmployeeName,
			&sum.Present, &sum.Late, &sum.HalfDay, &sum.Absent, &sum.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// MarkAbsentees inserts ABSENT rows for every active employee with no
// attendance record on the given date. Run by the scheduled day-close job.
func MarkAbsentees(ctx context.Context, db querier.Querier, date time.Time) (int, error) {
	tag, err := db.Exec(ctx, `
    INSERT INTO attendance (employee_id, date, status)
    SELECT e.id, $1, 'ABSENT'
    FROM employees e
    WHERE e.status = 'ACTIVE'
      AND NOT EXISTS (
        SELECT 1 FROM attendance a WHERE a.employee_id = e.id AND a.date = $1
      )
    ON CONFLICT (employee_id, date) DO NOTHING
  `, date.Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
