package summary

import "sync"

// keyedMutex provides per-key mutual exclusion. Destructive regeneration
// try-locks its (resource, version) key so a racing call fails fast with
// ErrConcurrentRegeneration; preserving regeneration blocks on its
// (resource, kind) key so the latest pointer is read from a consistent
// snapshot.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock blocks until the key's mutex is held.
func (k *keyedMutex) Lock(key string) {
	k.get(key).Lock()
}

// TryLock acquires the key's mutex without blocking; it reports whether the
// lock was taken.
func (k *keyedMutex) TryLock(key string) bool {
	return k.get(key).TryLock()
}

// Unlock releases the key's mutex.
func (k *keyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}
