package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	URL      string
	User     string
	Password string
}

func NewPool(cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)

	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 5

	// the store service account overrides whatever the URL carries
	if cfg.User != "" {
		poolCfg.ConnConfig.User = cfg.User
	}
	if cfg.Password != "" {
		poolCfg.ConnConfig.Password = cfg.Password
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
