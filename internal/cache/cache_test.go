package cache

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"recipefinder/internal/config"
)

func backends(t *testing.T) map[string]Cache {
	t.Helper()
	return map[string]Cache{
		"memory": NewInMemoryCache(),
		"file":   NewFileCache(filepath.Join(t.TempDir(), "cache")),
	}
}

func readAll(t *testing.T, c Cache, key string) string {
	t.Helper()
	rc, err := c.Get(t.Context(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(b)
}

func TestCacheRoundTrip(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			if _, err := c.Get(ctx, "prefs/theme"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			ok, err := c.Exists(ctx, "prefs/theme")
			if err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := c.Put(ctx, "prefs/theme", "dark"); err != nil {
				t.Fatalf("put: %v", err)
			}
			if got := readAll(t, c, "prefs/theme"); got != "dark" {
				t.Fatalf("expected dark, got %q", got)
			}

			if err := c.Put(ctx, "prefs/theme", "light"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if got := readAll(t, c, "prefs/theme"); got != "light" {
				t.Fatalf("expected light after overwrite, got %q", got)
			}

			ok, err = c.Exists(ctx, "prefs/theme")
			if err != nil || !ok {
				t.Fatalf("expected key to exist, got ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestFileCacheLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache(dir)
	for range 5 {
		if err := fc.Put(context.Background(), "prefs/favorites", "[]"); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "prefs"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "favorites" {
		t.Fatalf("expected only the favorites file, got %v", entries)
	}
}

func TestFileCacheRejectsEscapingKeys(t *testing.T) {
	fc := NewFileCache(t.TempDir())
	for _, key := range []string{"", "../outside", "/etc/passwd"} {
		if err := fc.Put(context.Background(), key, "x"); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}

func TestMakeCacheDefaultsToFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := MakeCache(t.Context(), config.StorageConfig{Dir: dir})
	if err != nil {
		t.Fatalf("make cache: %v", err)
	}
	fc, ok := c.(*FileCache)
	if !ok {
		t.Fatalf("expected *FileCache, got %T", c)
	}
	if fc.Dir != dir {
		t.Fatalf("expected dir %s, got %s", dir, fc.Dir)
	}
}
