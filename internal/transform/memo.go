package transform

import "sync"

// Memo caches the last computed value for a key. It only saves work; callers
// get the same result with or without it.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	key   K
	value V
	valid bool
}

// Get returns the cached value when key matches the last call, otherwise it
// computes, stores and returns a fresh one.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.value
	}
	m.key = key
	m.value = compute()
	m.valid = true
	return m.value
}

// Reset drops the cached value.
func (m *Memo[K, V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	m.value = zero
	m.valid = false
}
