// Package backend opens the blob store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/shubh-aarambh/fintrack/internal/config"
	"github.com/shubh-aarambh/fintrack/internal/storage"
	"github.com/shubh-aarambh/fintrack/internal/storage/memory"
	"github.com/shubh-aarambh/fintrack/internal/storage/redis"
	"github.com/shubh-aarambh/fintrack/internal/storage/sqlite"
)

// Open returns the store for cfg.StorageBackend. The caller closes it.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlite.New(cfg.DBPath)
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendRedis:
		return redis.New(ctx, cfg.RedisAddr, redis.WithPrefix(cfg.RedisPrefix))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Describe names the location of the store for logs.
func Describe(cfg *config.Config) string {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return cfg.DBPath
	case config.BackendRedis:
		return cfg.RedisAddr + "/" + cfg.RedisPrefix
	default:
		return cfg.StorageBackend
	}
}
