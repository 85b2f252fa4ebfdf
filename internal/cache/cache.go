package cache

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("key not found")

// Cache is the durable key-value storage behind favorites and preferences.
// Keys may contain slashes; backends treat them as path-like names.
type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key, value string) error
	Exists(ctx context.Context, key string) (bool, error)
}
