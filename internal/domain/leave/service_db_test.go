package leave_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
	. "hrops/internal/domain/leave"
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

func seedEmployee(t *testing.T, pool *pgxpool.Pool, confirmed bool, joinDate time.Time) string {
	t.Helper()
	nonce := time.Now().UnixNano()
	id, err := core.NewStore(pool).Create(context.Background(), core.Employee{
		EmployeeNumber: fmt.Sprintf("LV%d", nonce),
		FirstName:      "Leave",
		LastName:       "Case",
		Email:          fmt.Sprintf("leave-%d@example.com", nonce),
		JoinDate:       &joinDate,
		Confirmed:      confirmed,
		Status:         "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return id
}

func seedLeaveType(t *testing.T, pool *pgxpool.Pool, category string) string {
	t.Helper()
	nonce := time.Now().UnixNano()
	id, err := NewStore(pool).CreateType(context.Background(), LeaveType{
		Name:     fmt.Sprintf("Type %d", nonce),
		Code:     fmt.Sprintf("T%d", nonce),
		Category: category,
		IsPaid:   true,
	})
	if err != nil {
		t.Fatalf("seed leave type: %v", err)
	}
	return id
}

func TestTransitionRequestStaleVersionConflict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)

	employeeID := seedEmployee(t, pool, true, time.Now().AddDate(-2, 0, 0))
	typeID := seedLeaveType(t, pool, CategoryAnnual)

	day := time.Now().AddDate(0, 0, 7)
	requestID, err := store.CreateRequest(ctx, LeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: typeID,
		StartDate:   day,
		EndDate:     day,
		Days:        1,
		Status:      StatusPendingHR,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	decision, err := Decide(auth.RoleHR, ActionApprove, StatusPendingHR)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	actor := uuid.NewString()
	if err := store.TransitionRequest(ctx, requestID, 1, decision, actor); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	// a second approver acting on the same snapshot must lose the race
	reject, err := Decide(auth.RoleAdmin, ActionReject, StatusPendingHR)
	if err != nil {
		t.Fatalf("decide reject: %v", err)
	}
	if err := store.TransitionRequest(ctx, requestID, 1, reject, uuid.NewString()); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale transition: got %v, want ErrConflict", err)
	}

	req, err := store.GetRequest(ctx, requestID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.Status != decision.NextStatus {
		t.Fatalf("status = %s, want %s after losing write was rejected", req.Status, decision.NextStatus)
	}
	if req.Version != 2 {
		t.Fatalf("version = %d, want 2", req.Version)
	}
}

func TestApplyRejectsInsufficientBalance(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	service := NewService(NewStore(pool), core.NewStore(pool))

	// a fresh probationer has zero OTHER entitlement
	employeeID := seedEmployee(t, pool, false, time.Now().AddDate(0, 0, -10))
	typeID := seedLeaveType(t, pool, CategoryOther)

	day := time.Now().AddDate(0, 0, 7)
	_, err := service.Apply(ctx, employeeID, typeID, "family event", day, day, uuid.NewString())
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("apply: got %v, want ErrInsufficientBalance", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests WHERE employee_id = $1", employeeID).Scan(&count); err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 0 {
		t.Fatalf("leave_requests count = %d, want 0 after rejected apply", count)
	}

	balance, err := service.BalanceFor(ctx, employeeID, time.Now())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Used != (Entitlement{}) {
		t.Fatalf("used = %+v, want zero after rejected apply", balance.Used)
	}
	if balance.Remaining.Other != 0 {
		t.Fatalf("remaining other = %d, want 0 for a probationer", balance.Remaining.Other)
	}
}
