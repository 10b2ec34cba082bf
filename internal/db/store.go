package db

import (
	"context"
	"fmt"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/repo/postgres"
	"github.com/geocoder89/userhub/internal/repo/redisstore"
	"github.com/geocoder89/userhub/internal/store"
)

// OpenStore builds the backend named by cfg.StoreDriver. Postgres schema
// migrations run before the store is returned.
func OpenStore(ctx context.Context, cfg config.Config, prom *observability.Prom) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memory.NewStore(prom), nil

	case config.StoreRedis:
		client, err := NewRedis(RedisConfig{
			Addr:     cfg.RedisAddr,
			Username: cfg.StoreAccountEmail,
			Password: cfg.StoreAccountPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		return redisstore.NewStore(client, "", prom), nil

	case config.StorePostgres:
		pool, err := NewPool(PostgresConfig{
			URL:      cfg.DBURL,
			User:     cfg.StoreAccountEmail,
			Password: cfg.StoreAccountPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}

		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.NewStore(pool, prom), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
