// Package driver builds the storage.Storage selected in the config.
// It lives apart from package storage because it imports every
// implementation, and the implementations import storage.
package driver

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/students-api/internal/config"
	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/storage/memory"
	"github.com/aanand-mishra/students-api/internal/storage/redis"
	"github.com/aanand-mishra/students-api/internal/storage/sqlite"
)

// Open returns the store named by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.New(), nil

	case config.DriverSQLite:
		s, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverRedis:
		r, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
