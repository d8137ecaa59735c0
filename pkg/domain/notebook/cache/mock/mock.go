// this package provide in-memory "mock" implementation of the cache store for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/cache"
)

// Store keeps entries in a map, ignoring TTL (freshness is tracked by
// ListCache itself through the timestamp key).
type Store struct {
	mu      sync.Mutex
	entries map[string]string

	Calls struct {
		Get []string
		Set []string
		Del []string
	}

	// when set, every operation fails with this error.
	Err error
}

var _ cache.Store = &Store{}

func New() *Store {
	return &Store{entries: map[string]string{}}
}

func (m *Store) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Get = append(m.Calls.Get, key)
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Store) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Set = append(m.Calls.Set, key)
	if m.Err != nil {
		return m.Err
	}
	m.entries[key] = value
	return nil
}

func (m *Store) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Del = append(m.Calls.Del, keys...)
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}
