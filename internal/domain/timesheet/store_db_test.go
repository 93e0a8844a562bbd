package timesheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrops/internal/domain/core"
	"hrops/internal/platform/config"
	"hrops/internal/platform/db"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dbURL})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedEmployee(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	nonce := time.Now().UnixNano()
	joinDate := time.Now().AddDate(-1, 0, 0)
	id, err := core.NewStore(pool).Create(context.Background(), core.Employee{
		EmployeeNumber: fmt.Sprintf("TS%d", nonce),
		FirstName:      "Sheet",
		LastName:       "Case",
		Email:          fmt.Sprintf("sheet-%d@example.com", nonce),
		JoinDate:       &joinDate,
		Confirmed:      true,
		Status:         "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return id
}

// mondayOf returns the Monday of the week containing t.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

func TestTransitionStaleVersionConflict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)

	employeeID := seedEmployee(t, pool)
	id, err := store.Create(ctx, Timesheet{
		EmployeeID: employeeID,
		WeekStart:  mondayOf(time.Now()),
		Hours:      Hours{8, 8, 8, 8, 8, 0, 0},
		Status:     StatusDraft,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Transition(ctx, id, 1, StatusSubmitted, ""); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	// an approver acting on the stale DRAFT snapshot must lose
	if err := store.Transition(ctx, id, 1, StatusApproved, uuid.NewString()); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale transition: got %v, want ErrConflict", err)
	}

	ts, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ts.Status != StatusSubmitted {
		t.Fatalf("status = %s, want %s after losing write was rejected", ts.Status, StatusSubmitted)
	}
	if ts.Version != 2 {
		t.Fatalf("version = %d, want 2", ts.Version)
	}
}
