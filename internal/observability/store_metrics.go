package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// ObserveStore times fn under a logical op name. Misses and create conflicts
// are recorded as statuses rather than as errors.
func (p *Prom) ObserveStore(backend, op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"

	switch {
	case err == nil:
	case isMiss(err):
		status = "miss"
	case errors.Is(err, store.ErrUserExists):
		status = "conflict"
	default:
		status = "error"
		p.StoreErrors.WithLabelValues(backend, op, classifyStoreErr(err)).Inc()
	}

	p.StoreOpDuration.WithLabelValues(backend, op, status).Observe(time.Since(start).Seconds())
	return err
}

func isMiss(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, redis.Nil) ||
		errors.Is(err, store.ErrUserNotFound) ||
		errors.Is(err, store.ErrProfileNotFound)
}

func classifyStoreErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "40001":
			return "serialization_failure"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, redis.TxFailedErr) {
		return "tx_failed"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "refused"):
		return "connection"
	case strings.Contains(msg, "noauth") || strings.Contains(msg, "wrongpass") || strings.Contains(msg, "authentication"):
		return "auth"
	default:
		return "unknown"
	}
}
