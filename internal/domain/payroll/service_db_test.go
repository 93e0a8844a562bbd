package payroll

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

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

// seedRun creates a fresh DRAFT run for the given month, clearing any row a
// previous test execution left behind.
func seedRun(t *testing.T, pool *pgxpool.Pool, month, year int) Run {
	t.Helper()
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "DELETE FROM payroll_runs WHERE month = $1 AND year = $2", month, year); err != nil {
		t.Fatalf("clear run: %v", err)
	}
	run, err := NewStore(pool).CreateRun(ctx, month, year)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	return run
}

func TestTransitionRunStaleVersionConflict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)

	run := seedRun(t, pool, 1, 2097)

	if err := store.TransitionRun(ctx, run.ID, 1, RunStatusCalculated); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if err := store.TransitionRun(ctx, run.ID, 1, RunStatusFinalized); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale transition: got %v, want ErrConflict", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != RunStatusCalculated {
		t.Fatalf("status = %s, want %s after losing write was rejected", got.Status, RunStatusCalculated)
	}
	if got.Version != 2 {
		t.Fatalf("version = %d, want 2", got.Version)
	}
}

func TestCalculateIsNoOpPastDraft(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)
	service := NewService(store, t.TempDir())

	run := seedRun(t, pool, 2, 2097)
	if err := store.TransitionRun(ctx, run.ID, 1, RunStatusCalculated); err != nil {
		t.Fatalf("transition: %v", err)
	}

	got, err := service.Calculate(ctx, run.ID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if got.Status != RunStatusCalculated {
		t.Fatalf("status = %s, want %s unchanged", got.Status, RunStatusCalculated)
	}
	count, err := store.CountItems(ctx, run.ID)
	if err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 0 {
		t.Fatalf("line items = %d, want 0: calculate must not touch a %s run", count, RunStatusCalculated)
	}
}

func TestFinalizeRequiresLineItems(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewStore(pool)
	service := NewService(store, t.TempDir())

	run := seedRun(t, pool, 3, 2097)
	if err := store.TransitionRun(ctx, run.ID, 1, RunStatusCalculated); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if _, err := service.Finalize(ctx, run.ID); !errors.Is(err, ErrNoLineItems) {
		t.Fatalf("finalize: got %v, want ErrNoLineItems", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != RunStatusCalculated {
		t.Fatalf("status = %s, want %s: a run without items must not finalize", got.Status, RunStatusCalculated)
	}
}
