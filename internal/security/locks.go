package security

import "sync"

// keyedMutex serializes quarantine transitions per (guild, user). It narrows
// the window between the record existence check and the role mutation inside
// a single process; the persisted record re-check covers what the lock cannot
// (see Quarantine.Exit).
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function. Entries
// are kept for the process lifetime; the key space is bounded by the set of
// users that ever transitioned.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
