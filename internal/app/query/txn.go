package query

import "time"

// Txn is an optimistic mutation transaction over the cache. Updates are
// applied synchronously when made, so the UI observes the expected effect
// before the network call resolves; Commit keeps them and Rollback restores
// the prior values. Every mutation type goes through a Txn so the rollback
// path is exercised uniformly rather than reimplemented inline.
type Txn struct {
	cache *Cache
	steps []txnStep
}

// txnStep records the undo information for one optimistic write.
type txnStep struct {
	key           Key
	had           bool
	prev          any
	prevFetchedAt time.Time
	wroteVersion  uint64
}

// Begin starts an optimistic transaction against the cache.
func (c *Cache) Begin() *Txn {
	return &Txn{cache: c}
}

// Update applies fn to the value currently cached under key and stores the
// result as an optimistic value. fn receives the cached data (ok=false when
// no successful entry exists) and may decline the write by returning false,
// in which case nothing is recorded. The entry's fetchedAt is preserved:
// optimism does not refresh staleness.
func (t *Txn) Update(key Key, fn func(cur any, ok bool) (next any, write bool)) {
	c := t.cache

	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key.String()]

	var (
		cur any
		has bool
	)
	if exists && e.status == StatusSuccess {
		cur = e.data
		has = true
	}

	next, write := fn(cur, has)
	if !write {
		return
	}

	step := txnStep{key: key, had: has}
	if has {
		step.prev = e.data
		step.prevFetchedAt = e.fetchedAt
	}

	if !exists {
		e = &entry{key: key, fetchedAt: c.now()}
		c.entries[key.String()] = e
	}
	e.data = next
	e.err = nil
	e.status = StatusSuccess
	c.bumpLocked(e)
	step.wroteVersion = e.version

	t.steps = append(t.steps, step)
}

// Commit finalizes the transaction, keeping the optimistic values in place.
// The caller typically follows up with prefix invalidations that force an
// authoritative refetch.
func (t *Txn) Commit() {
	t.steps = nil
}

// Rollback restores the values recorded before each optimistic write, in
// reverse order. A step is skipped when the entry has been written since;
// an authoritative overwrite always wins over stale optimism.
func (t *Txn) Rollback() {
	c := t.cache

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(t.steps) - 1; i >= 0; i-- {
		step := t.steps[i]

		e, ok := c.entries[step.key.String()]
		if !ok || e.version != step.wroteVersion {
			continue
		}

		if step.had {
			e.data = step.prev
			e.fetchedAt = step.prevFetchedAt
			e.status = StatusSuccess
			c.bumpLocked(e)
		} else {
			delete(c.entries, step.key.String())
		}
	}

	t.steps = nil
}
