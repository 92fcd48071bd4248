// Package guard keeps two operations on the same key from running at once.
package guard

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Acquire when the key is already held.
var ErrBusy = errors.New("operation already in progress")

// Guard hands out exclusive, non-blocking holds on string keys.
type Guard interface {
	// Acquire takes the key or fails with ErrBusy. The returned release
	// function frees it and is safe to call more than once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Memory is an in-process Guard.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory creates an empty in-process guard.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

// Acquire implements Guard.
func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[key]; busy {
		return nil, ErrBusy
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, nil
}

// Held reports whether key is currently held.
func (m *Memory) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[key]
	return ok
}
