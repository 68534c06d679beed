package engine

import (
	"sort"
	"sync"
)

// accountLocks serializes operations per account id. Daily totals are
// re-derived from the transaction log at validation time and balance
// writes are separate store calls, so the whole read-validate-write
// sequence of one operation must hold the lock of every account it
// touches. Locks are created on demand and reused for the life of the
// process.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// acquire locks the given account ids in ascending order so two
// transfers moving money in opposite directions cannot deadlock.
// The returned function releases them in reverse order.
func (l *accountLocks) acquire(ids ...string) func() {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
