package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sarangparikh22/bentofund/internal/funding/domain"
	"github.com/sarangparikh22/bentofund/internal/funding/storage"
)

func testProject() domain.Project {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return domain.Project{
		Owner:     "alice",
		Asset:     "tok0",
		Goal:      1_000,
		Start:     now.Add(100 * time.Second),
		End:       now.Add(200 * time.Second),
		CreatedAt: now,
	}
}

func createProject(t *testing.T, store *Store) uint64 {
	t.Helper()
	ctx := context.Background()
	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	id, err := tx.CreateProject(ctx, testProject())
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return id
}

func TestCreateAssignsConsecutiveIDs(t *testing.T) {
	t.Parallel()

	store := New()
	first := createProject(t, store)
	second := createProject(t, store)
	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first, second)
	}

	next, err := store.NextProjectID(context.Background())
	if err != nil {
		t.Fatalf("next project id: %v", err)
	}
	if next != 3 {
		t.Fatalf("next id = %d, want 3", next)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()

	store := New()
	_, err := store.GetProject(context.Background(), 9)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestRollbackDiscardsEverything(t *testing.T) {
	t.Parallel()

	store := New()
	id := createProject(t, store)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.AddDeposit(ctx, id, "bob", 75); err != nil {
		t.Fatalf("add deposit: %v", err)
	}
	if _, err := tx.CreateProject(ctx, testProject()); err != nil {
		t.Fatalf("create project in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	project, err := store.GetProject(ctx, id)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if project.DepositedShares != 0 {
		t.Fatalf("aggregate after rollback = %d, want 0", project.DepositedShares)
	}
	next, err := store.NextProjectID(ctx)
	if err != nil {
		t.Fatalf("next project id: %v", err)
	}
	if next != id+1 {
		t.Fatalf("next id after rollback = %d, want %d", next, id+1)
	}
}

func TestConservationAcrossMutations(t *testing.T) {
	t.Parallel()

	store := New()
	id := createProject(t, store)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.AddDeposit(ctx, id, "bob", 60); err != nil {
		t.Fatalf("add bob: %v", err)
	}
	if err := tx.AddDeposit(ctx, id, "carol", 40); err != nil {
		t.Fatalf("add carol: %v", err)
	}
	if err := tx.SubtractDeposit(ctx, id, "carol", 15); err != nil {
		t.Fatalf("subtract carol: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	project, err := store.GetProject(ctx, id)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	total, err := store.SumFunderShares(ctx, id)
	if err != nil {
		t.Fatalf("sum funder shares: %v", err)
	}
	if project.DepositedShares != total || total != 85 {
		t.Fatalf("aggregate = %d, funder sum = %d; want both 85", project.DepositedShares, total)
	}
}

func TestSubtractDepositRejectsOverdraw(t *testing.T) {
	t.Parallel()

	store := New()
	id := createProject(t, store)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.AddDeposit(ctx, id, "bob", 10); err != nil {
		t.Fatalf("add deposit: %v", err)
	}
	err = tx.SubtractDeposit(ctx, id, "bob", 11)
	if !errors.Is(err, storage.ErrInsufficientShares) {
		t.Fatalf("overdraw error = %v, want %v", err, storage.ErrInsufficientShares)
	}
}
