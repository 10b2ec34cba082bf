package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/geocoder89/userhub/internal/validation"
	"github.com/jackc/pgx/v5"
)

// GetUser reports a username holding NUL as absent; text columns cannot store one.
func (s *Store) GetUser(ctx context.Context, username string) (user.User, error) {
	if !validation.HasNoNUL(username) {
		return user.User{}, store.ErrUserNotFound
	}

	var u user.User

	err := s.observe("users.get", func() error {
		return s.pool.QueryRow(
			ctx,
			`SELECT username, password
			 FROM users
			 WHERE username = $1`,
			username,
		).Scan(&u.Username, &u.Password)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, store.ErrUserNotFound
		}

		return user.User{}, store.Unavailable("postgres: get user", err)
	}
	return u, nil
}

func (s *Store) PutUser(ctx context.Context, u user.User) error {
	err := s.observe("users.put", func() error {
		_, err := s.pool.Exec(
			ctx,
			`INSERT INTO users (username, password)
			 VALUES ($1, $2)
			 ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password`,
			u.Username, u.Password,
		)
		return err
	})

	return store.Unavailable("postgres: put user", err)
}

func (s *Store) CreateUser(ctx context.Context, u user.User) error {
	var inserted int64

	err := s.observe("users.create", func() error {
		tag, err := s.pool.Exec(
			ctx,
			`INSERT INTO users (username, password)
			 VALUES ($1, $2)
			 ON CONFLICT (username) DO NOTHING`,
			u.Username, u.Password,
		)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return store.Unavailable("postgres: create user", err)
	}
	if inserted == 0 {
		return store.ErrUserExists
	}

	return nil
}
