// Package cachestore provides an in-memory TTL key-value store,
// namespaced by the kind of data being cached so the same key can
// exist independently under several namespaces.
package cachestore

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests control expiry.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		entries: map[string]entry{},
		now:     now,
	}
}

func cacheKey(namespace, key string) string {
	return namespace + ":" + key
}

// Get returns the cached value when present and not yet expired. An
// expired entry behaves exactly like a miss and is evicted lazily.
func (s *Store) Get(namespace, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := cacheKey(namespace, key)
	e, ok := s.entries[k]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return nil, false
	}
	return e.value, true
}

// Set overwrites unconditionally.
func (s *Store) Set(namespace, key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[cacheKey(namespace, key)] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *Store) Delete(namespace, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cacheKey(namespace, key))
}

// Purge drops every entry in a namespace.
func (s *Store) Purge(namespace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := namespace + ":"
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// Get is the typed accessor; a cached value of the wrong type counts
// as a miss.
func Get[T any](s *Store, namespace, key string) (T, bool) {
	var zero T
	raw, ok := s.Get(namespace, key)
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}
