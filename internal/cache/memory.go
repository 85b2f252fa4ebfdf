package cache

import (
	"context"
	"io"
	"strings"
	"sync"
)

// InMemoryCache stores entries in process memory. Nothing survives a restart.
type InMemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Cache = (*InMemoryCache)(nil)

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]string),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	value, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(value)), nil
}

func (c *InMemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	_, ok := c.data[key]
	c.mu.RUnlock()
	return ok, nil
}

func (c *InMemoryCache) Put(_ context.Context, key, value string) error {
	c.mu.Lock()
	c.data[key] = value
	c.mu.Unlock()
	return nil
}
