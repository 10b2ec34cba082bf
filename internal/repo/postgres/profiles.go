package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/geocoder89/userhub/internal/validation"
	"github.com/jackc/pgx/v5"
)

// one statement per searchable field so the expression indexes are used
var findByField = map[string]string{
	profile.FieldFirstName: `SELECT username, doc FROM profiles
		WHERE doc -> 'searchOptimized' ->> 'firstName' = $1`,
	profile.FieldLastName: `SELECT username, doc FROM profiles
		WHERE doc -> 'searchOptimized' ->> 'lastName' = $1`,
}

func (s *Store) GetProfile(ctx context.Context, username string) (profile.Profile, error) {
	if !validation.HasNoNUL(username) {
		return profile.Profile{}, store.ErrProfileNotFound
	}

	var doc []byte

	err := s.observe("profiles.get", func() error {
		return s.pool.QueryRow(
			ctx,
			`SELECT doc FROM profiles WHERE username = $1`,
			username,
		).Scan(&doc)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, store.ErrProfileNotFound
		}
		return profile.Profile{}, store.Unavailable("postgres: get profile", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return profile.Profile{}, store.Unavailable("postgres: decode profile", err)
	}

	return p, nil
}

func (s *Store) PutProfile(ctx context.Context, username string, p profile.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}

	err = s.observe("profiles.put", func() error {
		_, err := s.pool.Exec(
			ctx,
			`INSERT INTO profiles (username, doc)
			 VALUES ($1, $2::jsonb)
			 ON CONFLICT (username) DO UPDATE
			 SET doc = EXCLUDED.doc, updated_at = now()`,
			username, string(doc),
		)
		return err
	})

	return store.Unavailable("postgres: put profile", err)
}

func (s *Store) FindProfilesByNormalizedField(ctx context.Context, field, value string) (map[string]profile.Profile, error) {
	query, ok := findByField[field]
	if !ok {
		return nil, store.ErrInvalidField
	}
	if !validation.HasNoNUL(value) {
		return map[string]profile.Profile{}, nil
	}

	var out map[string]profile.Profile

	err := s.observe("profiles.find."+field, func() error {
		var err error
		out, err = s.collect(ctx, query, value)
		return err
	})

	if err != nil {
		return nil, store.Unavailable("postgres: find profiles", err)
	}
	return out, nil
}

func (s *Store) ListProfiles(ctx context.Context) (map[string]profile.Profile, error) {
	var out map[string]profile.Profile

	err := s.observe("profiles.list", func() error {
		var err error
		out, err = s.collect(ctx, `SELECT username, doc FROM profiles`)
		return err
	})

	if err != nil {
		return nil, store.Unavailable("postgres: list profiles", err)
	}
	return out, nil
}

func (s *Store) collect(ctx context.Context, query string, args ...any) (map[string]profile.Profile, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]profile.Profile)

	for rows.Next() {
		var (
			username string
			doc      []byte
		)

		if err := rows.Scan(&username, &doc); err != nil {
			return nil, err
		}

		var p profile.Profile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, err
		}
		out[username] = p
	}

	return out, rows.Err()
}
