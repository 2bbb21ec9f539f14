// Package storage provides the key-value capability the todo store persists
// into. Every backend stores opaque string values under string keys, in the
// manner of a browser's localStorage.
package storage

import (
	"errors"
	"sync"
)

// ErrUnknownBackend is returned by Open for a backend name it cannot build.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage is a synchronous key-value store.
type Storage interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set creates or replaces the value under key.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Disabled is the backend for hosts without usable storage: nothing is
// ever found and every write is dropped.
type Disabled struct{}

func (Disabled) Get(string) (string, bool, error) { return "", false, nil }
func (Disabled) Set(string, string) error         { return nil }
func (Disabled) Remove(string) error              { return nil }

// Memory keeps values in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
