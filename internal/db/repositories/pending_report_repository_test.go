package repositories

import (
	"context"
	"testing"
	"time"

	"disaster-relief/beacon/internal/models/gorm"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
)

func newTestQueue(t *testing.T) *PendingReportRepo {
	t.Helper()

	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gorm.PendingReport{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return NewPendingReportRepo(db)
}

func testEntry(userID, comments string) *gorm.PendingReport {
	return &gorm.PendingReport{
		ClientRef:    "ref-" + comments,
		UserID:       userID,
		DisasterType: "Flood",
		Severity:     3,
		Comments:     comments,
		Latitude:     -6.2,
		Longitude:    106.8,
		Timestamp:    time.Now().UTC(),
	}
}

func TestEnqueueAssignsIncreasingKeys(t *testing.T) {
	repo := newTestQueue(t)
	ctx := context.Background()

	k1, err := repo.Enqueue(ctx, testEntry("user-1", "first"))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	k2, err := repo.Enqueue(ctx, testEntry("user-1", "second"))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if k1 == 0 {
		t.Error("expected non-zero local key")
	}
	if k2 <= k1 {
		t.Errorf("expected keys to increase, got %d then %d", k1, k2)
	}
}

func TestListAllReturnsInsertionOrder(t *testing.T) {
	repo := newTestQueue(t)
	ctx := context.Background()

	for _, c := range []string{"first", "second", "third"} {
		if _, err := repo.Enqueue(ctx, testEntry("user-1", c)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	entries, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Comments != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i].Comments)
		}
	}
}

func TestListByUserFiltersOtherUsers(t *testing.T) {
	repo := newTestQueue(t)
	ctx := context.Background()

	if _, err := repo.Enqueue(ctx, testEntry("user-1", "mine")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := repo.Enqueue(ctx, testEntry("user-2", "theirs")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	entries, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Comments != "mine" {
		t.Errorf("expected only user-1's entry, got %q", entries[0].Comments)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := newTestQueue(t)
	ctx := context.Background()

	key, err := repo.Enqueue(ctx, testEntry("user-1", "once"))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.Remove(ctx, key); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := repo.Remove(ctx, key); err != nil {
		t.Errorf("removing an already-removed key should be a no-op, got %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty queue, got %d", count)
	}
}

func TestCountTracksQueueSize(t *testing.T) {
	repo := newTestQueue(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty queue, got %d", count)
	}

	k1, _ := repo.Enqueue(ctx, testEntry("user-1", "a"))
	repo.Enqueue(ctx, testEntry("user-1", "b"))

	count, _ = repo.Count(ctx)
	if count != 2 {
		t.Errorf("expected 2 queued entries, got %d", count)
	}

	repo.Remove(ctx, k1)
	count, _ = repo.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 queued entry after remove, got %d", count)
	}
}
