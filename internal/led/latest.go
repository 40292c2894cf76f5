package led

import (
	"context"
	"sync"
)

// Latest is a single-slot cell holding the most recent value stored.
//
// Stores never block and overwrite the previous value; a consumer that reads
// slower than values arrive only sees the newest one.
type Latest[T any] struct {
	mu      sync.Mutex
	v       T
	seq     uint64
	changed chan struct{}
}

// NewLatest returns an empty cell.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{changed: make(chan struct{})}
}

// Store replaces the value and wakes every waiter.
func (l *Latest[T]) Store(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v = v
	l.seq++
	close(l.changed)
	l.changed = make(chan struct{})
}

// Load returns the current value and its sequence number. A sequence of 0
// means nothing was stored yet.
func (l *Latest[T]) Load() (T, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v, l.seq
}

// Changed returns a channel closed on the next Store.
func (l *Latest[T]) Changed() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.changed
}

// Wait blocks until a value newer than seq is stored or ctx is done.
func (l *Latest[T]) Wait(ctx context.Context, seq uint64) (T, uint64, error) {
	for {
		l.mu.Lock()
		v, cur, ch := l.v, l.seq, l.changed
		l.mu.Unlock()
		if cur > seq {
			return v, cur, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, seq, ctx.Err()
		case <-ch:
		}
	}
}
