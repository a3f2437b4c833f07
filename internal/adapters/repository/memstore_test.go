package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/pkg/matrix"
)

func newJob(id string) model.Job {
	pred, _ := matrix.New(2, 3, nil)
	return model.Job{ID: id, Scorer: "boltzman", Pred: pred, SubmittedAt: time.Now()}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	ok, err := store.Reserve(ctx, newJob("job-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first reservation to succeed")
	}

	rec, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != model.StatusPending {
		t.Errorf("expected pending, got %s", rec.Status)
	}
	if rec.Rows != 2 || rec.Classes != 3 {
		t.Errorf("expected 2x3 shape, got %dx%d", rec.Rows, rec.Classes)
	}

	ok, err = store.Reserve(ctx, newJob("job-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected duplicate reservation to report false")
	}

	res := model.Result{Scorer: "boltzman", Confidence: []float64{0.6, 0.9}, Labels: []int{2, 1}}
	if err := store.Complete(ctx, "job-1", res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = store.Get(ctx, "job-1")
	if rec.Status != model.StatusDone {
		t.Errorf("expected done, got %s", rec.Status)
	}
	if len(rec.Result.Labels) != 2 || rec.Result.Labels[0] != 2 {
		t.Errorf("unexpected labels %v", rec.Result.Labels)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("expected completion time to be set")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestMemoryStore_Fail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	_, _ = store.Reserve(ctx, newJob("job-f"))
	if err := store.Fail(ctx, "job-f", "scoring validation error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ := store.Get(ctx, "job-f")
	if rec.Status != model.StatusFailed || rec.Error != "scoring validation error" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Complete(ctx, "missing", model.Result{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Fail(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Release(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	_, _ = store.Reserve(ctx, newJob("pending"))
	store.Release(ctx, "pending")
	if _, err := store.Get(ctx, "pending"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected released job to be gone, got %v", err)
	}

	// finished jobs survive a release
	_, _ = store.Reserve(ctx, newJob("done"))
	_ = store.Complete(ctx, "done", model.Result{})
	store.Release(ctx, "done")
	if _, err := store.Get(ctx, "done"); err != nil {
		t.Errorf("expected finished job to be kept, got %v", err)
	}

	// a released id can be reserved again
	ok, err := store.Reserve(ctx, newJob("pending"))
	if err != nil || !ok {
		t.Errorf("expected re-reservation to succeed, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithShardCount(1), WithCapacity(2))
	defer func() { _ = store.Close() }()

	_, _ = store.Reserve(ctx, newJob("a"))
	_, _ = store.Reserve(ctx, newJob("b"))

	// both pending: nothing can be evicted
	if _, err := store.Reserve(ctx, newJob("c")); !errors.Is(err, ErrStoreFull) {
		t.Fatalf("expected ErrStoreFull, got %v", err)
	}

	_ = store.Complete(ctx, "b", model.Result{})
	_ = store.Complete(ctx, "a", model.Result{})
	// finishing twice does not list a job twice
	_ = store.Fail(ctx, "b", "late failure")

	// "b" finished first
	ok, err := store.Reserve(ctx, newJob("c"))
	if err != nil || !ok {
		t.Fatalf("expected reservation after eviction, got ok=%v err=%v", ok, err)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected b to be evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "a"); err != nil {
		t.Errorf("expected a to be kept, got %v", err)
	}

	// "a" goes next; "c" is pending and must survive
	if ok, err := store.Reserve(ctx, newJob("d")); err != nil || !ok {
		t.Fatalf("expected second eviction, got ok=%v err=%v", ok, err)
	}
	if _, err := store.Get(ctx, "c"); err != nil {
		t.Errorf("expected pending c to be kept, got %v", err)
	}
	if _, err := store.Reserve(ctx, newJob("e")); !errors.Is(err, ErrStoreFull) {
		t.Errorf("expected ErrStoreFull with only pending jobs, got %v", err)
	}
	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestMemoryStore_EvictionCompacts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithShardCount(1), WithCapacity(4))
	defer func() { _ = store.Close() }()

	// a pending job ahead of every finished one is skipped, not scanned
	_, _ = store.Reserve(ctx, newJob("pending"))

	for i := 0; i < 10_000; i++ {
		id := fmt.Sprintf("job-%d", i)
		if ok, err := store.Reserve(ctx, newJob(id)); err != nil || !ok {
			t.Fatalf("reserve %s: ok=%v err=%v", id, ok, err)
		}
		if err := store.Complete(ctx, id, model.Result{}); err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}

	if count := store.Count(ctx); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}
	if _, err := store.Get(ctx, "pending"); err != nil {
		t.Errorf("expected pending job to be kept, got %v", err)
	}
	if _, err := store.Get(ctx, "job-9999"); err != nil {
		t.Errorf("expected newest job to be kept, got %v", err)
	}

	sh := store.shards[0]
	if live := len(sh.finished) - sh.head; live != 3 {
		t.Errorf("expected 3 listed finished jobs, got %d", live)
	}
	if len(sh.finished) > 2*compactThreshold {
		t.Errorf("expected finished list to be compacted, len=%d", len(sh.finished))
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithShardCount(4), WithCapacity(10_000), WithMetricsUpdateInterval(time.Millisecond))
	defer func() { _ = store.Close() }()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("job-%d-%d", w, i)
				if ok, err := store.Reserve(ctx, newJob(id)); err != nil || !ok {
					t.Errorf("reserve %s: ok=%v err=%v", id, ok, err)
					return
				}
				if err := store.Complete(ctx, id, model.Result{}); err != nil {
					t.Errorf("complete %s: %v", id, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 800 {
		t.Errorf("expected count 800, got %d", count)
	}
}
