package postgres

import (
	"context"

	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

const backend = "postgres"

// Store keeps users in a plain table and profiles as jsonb documents.
type Store struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{
		pool: pool,
		prom: prom,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) observe(op string, fn func() error) error {
	return s.prom.ObserveStore(backend, op, fn)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
