package reimbursement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrops/internal/domain/auth"
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
		EmployeeNumber: fmt.Sprintf("RB%d", nonce),
		FirstName:      "Claim",
		LastName:       "Case",
		Email:          fmt.Sprintf("reimb-%d@example.com", nonce),
		JoinDate:       &joinDate,
		Confirmed:      true,
		Status:         "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return id
}

func TestSubmitRejectsNonPositiveAmount(t *testing.T) {
	// validation runs before any storage access
	service := &Service{}

	if _, err := service.Submit(context.Background(), uuid.NewString(), decimal.Zero, "lunch", "", uuid.NewString()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	negative := decimal.NewFromInt(-45)
	if _, err := service.Submit(context.Background(), uuid.NewString(), negative, "lunch", "", uuid.NewString()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}
}

func TestTransitionStaleVersionConflict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)

	employeeID := seedEmployee(t, pool)
	id, err := store.Create(ctx, Reimbursement{
		EmployeeID:  employeeID,
		Amount:      decimal.RequireFromString("1250.50"),
		Description: "travel",
		Status:      StatusPendingManager,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approve, err := Decide(auth.RoleManager, ActionApprove, StatusPendingManager)
	if err != nil {
		t.Fatalf("decide approve: %v", err)
	}
	if err := store.Transition(ctx, id, 1, approve, uuid.NewString(), ""); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	reject, err := Decide(auth.RoleManager, ActionReject, StatusPendingManager)
	if err != nil {
		t.Fatalf("decide reject: %v", err)
	}
	if err := store.Transition(ctx, id, 1, reject, uuid.NewString(), "duplicate claim"); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale transition: got %v, want ErrConflict", err)
	}

	r, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.Status != StatusPendingHR {
		t.Fatalf("status = %s, want %s after losing write was rejected", r.Status, StatusPendingHR)
	}
	if r.Version != 2 {
		t.Fatalf("version = %d, want 2", r.Version)
	}
}
