package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Suitable for single-instance
// deployments; use the Redis backend when running multiple replicas.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	janitorStop chan struct{}
	janitorOnce sync.Once
}

// NewMemory creates an in-memory cache with a background janitor that
// evicts expired entries.
func NewMemory(sweep time.Duration) *Memory {
	m := &Memory{
		entries:     make(map[string]memoryEntry),
		janitorStop: make(chan struct{}),
	}
	if sweep <= 0 {
		sweep = time.Minute
	}
	go m.janitor(sweep)
	return m
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: b, expiresAt: exp}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return ErrCacheMiss
	}
	return json.Unmarshal(e.value, dest)
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.janitorOnce.Do(func() { close(m.janitorStop) })
	return nil
}

func (m *Memory) janitor(sweep time.Duration) {
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()
	for {
		select {
		case <-m.janitorStop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for k, e := range m.entries {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Service = (*Memory)(nil)
