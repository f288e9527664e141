package metrics

import (
	"sync"
	"time"
)

// DefaultBufferCapacity matches the bounded execution history kept in memory.
const DefaultBufferCapacity = 1000

// Timestamped is anything a CircularBuffer can window by time.
type Timestamped interface {
	Time() time.Time
}

// CircularBuffer is a fixed-size ring of timestamped entries.
// It is safe for concurrent use and evicts the oldest entry when full.
type CircularBuffer[T Timestamped] struct {
	mu       sync.RWMutex
	data     []T
	capacity int
	head     int // next write position
	size     int
}

// NewCircularBuffer creates a buffer; non-positive capacity uses DefaultBufferCapacity.
func NewCircularBuffer[T Timestamped](capacity int) *CircularBuffer[T] {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &CircularBuffer[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}
}

// Push appends an entry. Entries with a zero timestamp are dropped.
func (b *CircularBuffer[T]) Push(v T) {
	if v.Time().IsZero() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = v
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// oldest returns the index of the oldest entry. Caller holds the lock.
func (b *CircularBuffer[T]) oldest() int {
	return (b.head - b.size + b.capacity) % b.capacity
}

// All returns every entry in insertion order.
func (b *CircularBuffer[T]) All() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return nil
	}
	out := make([]T, b.size)
	start := b.oldest()
	for i := 0; i < b.size; i++ {
		out[i] = b.data[(start+i)%b.capacity]
	}
	return out
}

// Recent returns the n most recent entries in insertion order.
func (b *CircularBuffer[T]) Recent(n int) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || b.size == 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}
	out := make([]T, n)
	start := (b.head - n + b.capacity) % b.capacity
	for i := 0; i < n; i++ {
		out[i] = b.data[(start+i)%b.capacity]
	}
	return out
}

// InRange returns the entries whose timestamp lies within r, in insertion order.
func (b *CircularBuffer[T]) InRange(r TimeRange) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []T
	start := b.oldest()
	for i := 0; i < b.size; i++ {
		v := b.data[(start+i)%b.capacity]
		if r.Contains(v.Time()) {
			out = append(out, v)
		}
	}
	return out
}

// Latest returns the most recent entry, or false if the buffer is empty.
func (b *CircularBuffer[T]) Latest() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.data[(b.head-1+b.capacity)%b.capacity], true
}

// Len returns the number of stored entries.
func (b *CircularBuffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the capacity.
func (b *CircularBuffer[T]) Cap() int {
	return b.capacity
}

// Clear empties the buffer.
func (b *CircularBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	for i := range b.data {
		b.data[i] = zero
	}
	b.head = 0
	b.size = 0
}
