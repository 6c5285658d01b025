package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eventbook/internal/pkg/logx"
)

// Status enumerates the lifecycle of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// FetchFunc loads the authoritative value for a key from the remote store.
type FetchFunc func(ctx context.Context) (any, error)

// entry is one cached query result. version increases on every write to the
// entry, letting optimistic transactions detect when an authoritative write
// has superseded theirs.
type entry struct {
	key       Key
	data      any
	err       error
	status    Status
	fetchedAt time.Time
	version   uint64
}

// Cache is the process-wide query cache. All access is mutex-guarded; the
// singleflight group is the one-fetch-per-key discipline that keeps duplicate
// concurrent reads off the network.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	version uint64
	group   singleflight.Group
	now     func() time.Time
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Fetch returns the value cached under key, honoring the staleness window:
// a fresh hit returns the cached value with no network call; a stale hit
// returns the cached value immediately and refreshes in the background; a
// miss (or a previously failed entry) blocks on a refresh. Concurrent calls
// for the same key share a single underlying request.
func (c *Cache) Fetch(ctx context.Context, key Key, staleAfter time.Duration, fn FetchFunc) (any, error) {
	ks := key.String()

	c.mu.RLock()
	e, ok := c.entries[ks]
	var (
		cached  any
		success bool
		fresh   bool
	)
	if ok && e.status == StatusSuccess {
		success = true
		cached = e.data
		fresh = c.now().Sub(e.fetchedAt) < staleAfter
	}
	c.mu.RUnlock()

	if success && fresh {
		return cached, nil
	}

	if success {
		// Stale-while-revalidate: serve the cached value now and let the
		// refresh land whenever it lands. The background fetch must outlive
		// the caller's context.
		bgCtx := context.WithoutCancel(ctx)
		go func() {
			if _, err := c.refresh(bgCtx, key, fn); err != nil {
				logx.Debug("Background cache refresh failed", "key", ks, "error", err.Error())
			}
		}()
		return cached, nil
	}

	return c.refresh(ctx, key, fn)
}

// refresh loads the authoritative value for key and stores the outcome.
// Concurrent refreshes for the same key are coalesced.
func (c *Cache) refresh(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	data, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.setStatus(key, StatusLoading)

		data, err := fn(ctx)
		if err != nil {
			c.storeError(key, err)
			return nil, err
		}

		c.Put(key, data)
		return data, nil
	})
	return data, err
}

// Peek returns the cached value under key without triggering any fetch.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key.String()]
	if !ok || e.status != StatusSuccess {
		return nil, false
	}
	return e.data, true
}

// Status returns the lifecycle state of the entry under key; StatusIdle when
// no entry exists.
func (c *Cache) Status(key Key) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key.String()]; ok {
		return e.status
	}
	return StatusIdle
}

// Put stores data as the authoritative value under key. Authoritative writes
// always win: any optimistic value present is overwritten and its pending
// rollback neutralized via the version bump.
func (c *Cache) Put(key Key, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensureLocked(key)
	e.data = data
	e.err = nil
	e.status = StatusSuccess
	e.fetchedAt = c.now()
	c.bumpLocked(e)
}

// Invalidate removes every entry whose key starts with prefix and returns the
// number of entries removed.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for ks, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, ks)
			removed++
		}
	}
	return removed
}

// Remove deletes the single entry stored under key, if any.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}

// setStatus transitions the entry under key to the given status, creating the
// entry when absent.
func (c *Cache) setStatus(key Key, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensureLocked(key)
	e.status = status
	c.bumpLocked(e)
}

// storeError records a failed load under key. Any previously cached data is
// discarded; the next read will block on a fresh fetch.
func (c *Cache) storeError(key Key, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensureLocked(key)
	e.data = nil
	e.err = err
	e.status = StatusError
	e.fetchedAt = c.now()
	c.bumpLocked(e)
}

// ensureLocked returns the entry under key, creating it when absent.
// Callers must hold c.mu.
func (c *Cache) ensureLocked(key Key) *entry {
	ks := key.String()
	e, ok := c.entries[ks]
	if !ok {
		e = &entry{key: key}
		c.entries[ks] = e
	}
	return e
}

// bumpLocked advances the entry's version. Callers must hold c.mu.
func (c *Cache) bumpLocked(e *entry) {
	c.version++
	e.version = c.version
}
