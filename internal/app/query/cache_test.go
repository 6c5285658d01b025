package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchMissBlocksOnLoad(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	v, err := c.Fetch(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		return "loaded", nil
	})
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if v != "loaded" {
		t.Errorf("Fetch() = %v, want %q", v, "loaded")
	}
	if c.Status(key) != StatusSuccess {
		t.Errorf("Status() = %v, want StatusSuccess", c.Status(key))
	}
}

func TestFetchFreshHitSkipsNetwork(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	var calls int64
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		return "v1", nil
	}

	if _, err := c.Fetch(context.Background(), key, time.Minute, fn); err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	v, err := c.Fetch(context.Background(), key, time.Minute, fn)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if v != "v1" {
		t.Errorf("Fetch() = %v, want cached %q", v, "v1")
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestFetchStaleHitServesCachedAndRevalidates(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "list", "page=1&limit=10")

	now := time.Now()
	c.now = func() time.Time { return now }

	if _, err := c.Fetch(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		return "old", nil
	}); err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}

	// Move past the staleness window.
	now = now.Add(2 * time.Minute)

	refreshed := make(chan struct{})
	v, err := c.Fetch(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		defer close(refreshed)
		return "new", nil
	})
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if v != "old" {
		t.Errorf("stale Fetch() = %v, want the cached %q served immediately", v, "old")
	}

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("background revalidation never ran")
	}

	// The refresh outcome lands asynchronously; poll briefly.
	deadline := time.After(time.Second)
	for {
		if got, ok := c.Peek(key); ok && got == "new" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("refreshed value never landed in the cache")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestFetchCoalescesConcurrentLoads(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	var calls int64
	release := make(chan struct{})

	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)

	started := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			v, err := c.Fetch(context.Background(), key, time.Minute, fn)
			if err != nil {
				t.Errorf("Fetch() unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	for i := 0; i < workers; i++ {
		<-started
	}
	// Give every goroutine a chance to reach the singleflight gate.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("fetch calls = %d, want 1 for coalesced loads", got)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("results[%d] = %v, want %q", i, v, "shared")
		}
	}
}

func TestFetchErrorEntryRetriesOnNextRead(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	wantErr := errors.New("load failed")
	_, err := c.Fetch(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Fetch() error = %v, want %v", err, wantErr)
	}
	if c.Status(key) != StatusError {
		t.Errorf("Status() = %v, want StatusError", c.Status(key))
	}

	v, err := c.Fetch(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Fetch() unexpected error on retry: %v", err)
	}
	if v != "recovered" {
		t.Errorf("Fetch() = %v, want %q", v, "recovered")
	}
}

func TestInvalidateRemovesExactPrefixGroup(t *testing.T) {
	c := NewCache()

	c.Put(NewKey("events", "list", "page=1&limit=10"), "p1")
	c.Put(NewKey("events", "list", "page=2&limit=10"), "p2")
	c.Put(NewKey("events", "detail", "e-1"), "d1")
	c.Put(NewKey("registrations", "byUser", "u-1"), "r1")

	removed := c.Invalidate(NewKey("events", "list"))
	if removed != 2 {
		t.Errorf("Invalidate() removed %d entries, want 2", removed)
	}

	if _, ok := c.Peek(NewKey("events", "list", "page=1&limit=10")); ok {
		t.Error("list page survived its prefix invalidation")
	}
	if _, ok := c.Peek(NewKey("events", "detail", "e-1")); !ok {
		t.Error("detail entry removed by an unrelated invalidation")
	}
	if _, ok := c.Peek(NewKey("registrations", "byUser", "u-1")); !ok {
		t.Error("registrations entry removed by an unrelated invalidation")
	}
}

func TestInvalidatePrefixIsSegmentwise(t *testing.T) {
	c := NewCache()

	c.Put(NewKey("events", "list"), "a")
	c.Put(NewKey("events", "listing"), "b")

	if removed := c.Invalidate(NewKey("events", "list")); removed != 1 {
		t.Errorf("Invalidate() removed %d entries, want 1 (segment match, not string match)", removed)
	}
	if _, ok := c.Peek(NewKey("events", "listing")); !ok {
		t.Error("sibling segment was invalidated by a partial string match")
	}
}

func TestTxnOptimisticUpdateVisibleImmediately(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")
	c.Put(key, 10)

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		if !ok {
			t.Fatal("Update() callback saw no cached value")
		}
		return cur.(int) - 1, true
	})

	if v, _ := c.Peek(key); v != 9 {
		t.Errorf("Peek() = %v, want 9 before the transaction resolves", v)
	}

	txn.Commit()
	if v, _ := c.Peek(key); v != 9 {
		t.Errorf("Peek() = %v, want 9 after commit", v)
	}
}

func TestTxnRollbackRestoresPriorValue(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")
	c.Put(key, 10)

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		return cur.(int) - 1, true
	})
	txn.Rollback()

	if v, _ := c.Peek(key); v != 10 {
		t.Errorf("Peek() = %v, want 10 after rollback", v)
	}
}

func TestTxnRollbackSkipsAuthoritativeOverwrite(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")
	c.Put(key, 10)

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		return cur.(int) - 1, true
	})

	// An authoritative refetch lands while the mutation is in flight.
	c.Put(key, 42)

	txn.Rollback()

	if v, _ := c.Peek(key); v != 42 {
		t.Errorf("Peek() = %v, want the authoritative 42 to survive the rollback", v)
	}
}

func TestTxnRollbackDeletesCreatedEntry(t *testing.T) {
	c := NewCache()
	key := NewKey("registrations", "byUser", "u-1")

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		if ok {
			t.Fatal("Update() callback saw a value in an empty cache")
		}
		return "optimistic", true
	})

	if _, ok := c.Peek(key); !ok {
		t.Fatal("optimistic entry not visible")
	}

	txn.Rollback()
	if _, ok := c.Peek(key); ok {
		t.Error("entry created by the transaction survived its rollback")
	}
}

func TestTxnDeclinedWriteRecordsNothing(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		return nil, false
	})

	if _, ok := c.Peek(key); ok {
		t.Error("declined write still created an entry")
	}
	txn.Rollback()
}

func TestTxnUpdatePreservesFetchedAt(t *testing.T) {
	c := NewCache()
	key := NewKey("events", "detail", "e-1")

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(key, 10)

	fetched := now
	now = now.Add(30 * time.Second)

	txn := c.Begin()
	txn.Update(key, func(cur any, ok bool) (any, bool) {
		return cur.(int) - 1, true
	})
	txn.Commit()

	c.mu.RLock()
	e := c.entries[key.String()]
	c.mu.RUnlock()

	if !e.fetchedAt.Equal(fetched) {
		t.Errorf("fetchedAt = %v, want the original fetch time %v (optimism must not refresh staleness)", e.fetchedAt, fetched)
	}
}
