package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrops/internal/platform/querier"
)

const (
	KindLeaveSubmitted        = "leave_submitted"
	KindLeaveResolved         = "leave_resolved"
	KindReimbursementResolved = "reimbursement_resolved"
	KindTimesheetReviewed     = "timesheet_reviewed"
	KindPayslipPublished      = "payslip_published"
)

var ErrNotFound = errors.New("notification not found")

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Service struct {
	DB     querier.Querier
	Mailer Mailer
	From   string
}

func New(db querier.Querier, mailer Mailer, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{DB: db, Mailer: mailer, From: from}
}

// Notify writes the in-app notification row and sends a best-effort email
// copy. Email failures never fail the triggering operation.
func (s *Service) Notify(ctx context.Context, userID, kind, title, body string) error {
	if userID == "" {
		return nil
	}
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, kind, title, body)
    VALUES ($1,$2,$3,$4)
  `, userID, kind, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	email := ""
	if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&email); err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.From, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM notifications WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, kind, title, body, read_at, created_at
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE id = $1 AND user_id = $2 AND read_at IS NULL
  `, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.DB.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)",
			notificationID, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
