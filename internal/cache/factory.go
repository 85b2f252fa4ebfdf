package cache

import (
	"context"
	"log/slog"

	"recipefinder/internal/config"
)

func MakeCache(ctx context.Context, cfg config.StorageConfig) (Cache, error) {
	if cfg.Azure() {
		slog.InfoContext(ctx, "using azure blob storage", "account", cfg.AzureAccount, "container", cfg.AzureContainer)
		bc, err := NewBlobCache(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer)
		if err != nil {
			return nil, err
		}
		if err := bc.EnsureContainer(ctx); err != nil {
			return nil, err
		}
		return bc, nil
	}

	slog.InfoContext(ctx, "using file storage", "dir", cfg.Dir)
	return NewFileCache(cfg.Dir), nil
}
