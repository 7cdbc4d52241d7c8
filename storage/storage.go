package storage

import (
	"context"
	"sync"

	"recipebuilder"
)

// KV is the durable string-keyed store the recipe book is written to.
// Get returns recipebuilder.ErrNotFound when the key is absent; Remove of an
// absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// CatalogSource provides the raw ingredient catalog document.
type CatalogSource interface {
	Load(ctx context.Context) ([]byte, error)
}

var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*FileKV)(nil)
	_ KV = (*S3KV)(nil)
	_ KV = (*RedisKV)(nil)
)

// MemoryKV is an in-memory KV. Errors can be injected to simulate a failing
// backend (quota exceeded, corrupted store).
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	getErr error
	setErr error

	sets int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// NewMemoryKVWith returns a MemoryKV pre-populated with a single key.
func NewMemoryKVWith(key string, value []byte) *MemoryKV {
	m := NewMemoryKV()
	m.data[key] = value
	return m
}

// FailGets makes every subsequent Get return err (nil restores normal behaviour).
func (m *MemoryKV) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailSets makes every subsequent Set return err (nil restores normal behaviour).
func (m *MemoryKV) FailSets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Sets reports how many successful writes the store has seen.
func (m *MemoryKV) Sets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, recipebuilder.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

func (m *MemoryKV) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	delete(m.data, key)
	return nil
}

// StaticCatalog is a CatalogSource over an in-memory document.
type StaticCatalog struct {
	data []byte
	err  error
}

func NewStaticCatalog(data []byte) *StaticCatalog {
	return &StaticCatalog{data: data}
}

func NewStaticCatalogWithError(err error) *StaticCatalog {
	return &StaticCatalog{err: err}
}

func (c *StaticCatalog) Load(ctx context.Context) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.data, nil
}
