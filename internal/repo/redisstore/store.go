// Package redisstore keeps users and profiles as JSON documents in Redis, using the
// same key paths as the document store (users/{u}, profiles/{u}) and one set
// per searchOptimized value as the equality index.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/redis/go-redis/v9"
)

const (
	backend = "redis"

	// optimistic PutProfile attempts before giving up
	maxTxAttempts = 3
)

type Store struct {
	client *redis.Client
	prefix string
	prom   *observability.Prom
}

func NewStore(client *redis.Client, prefix string, prom *observability.Prom) *Store {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		client: client,
		prefix: prefix,
		prom:   prom,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) userKey(username string) string {
	return s.prefix + store.UserPath(username)
}

func (s *Store) profileKey(username string) string {
	return s.prefix + store.ProfilePath(username)
}

func (s *Store) indexKey(field, value string) string {
	return fmt.Sprintf("%sindex/profiles/searchOptimized/%s/%s", s.prefix, field, value)
}

func (s *Store) allProfilesKey() string {
	return s.prefix + "index/profiles"
}

func (s *Store) GetUser(ctx context.Context, username string) (user.User, error) {
	var raw string

	err := s.prom.ObserveStore(backend, "users.get", func() error {
		var err error
		raw, err = s.client.Get(ctx, s.userKey(username)).Result()
		return err
	})

	if errors.Is(err, redis.Nil) {
		return user.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, store.Unavailable("redis: get user", err)
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return user.User{}, store.Unavailable("redis: decode user", err)
	}

	return u, nil
}

func (s *Store) PutUser(ctx context.Context, u user.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return err
	}

	err = s.prom.ObserveStore(backend, "users.put", func() error {
		return s.client.Set(ctx, s.userKey(u.Username), doc, 0).Err()
	})

	return store.Unavailable("redis: put user", err)
}

func (s *Store) CreateUser(ctx context.Context, u user.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return err
	}

	var created bool

	err = s.prom.ObserveStore(backend, "users.create", func() error {
		var err error
		created, err = s.client.SetNX(ctx, s.userKey(u.Username), doc, 0).Result()
		return err
	})

	if err != nil {
		return store.Unavailable("redis: create user", err)
	}
	if !created {
		return store.ErrUserExists
	}

	return nil
}

func (s *Store) GetProfile(ctx context.Context, username string) (profile.Profile, error) {
	var raw string

	err := s.prom.ObserveStore(backend, "profiles.get", func() error {
		var err error
		raw, err = s.client.Get(ctx, s.profileKey(username)).Result()
		return err
	})

	if errors.Is(err, redis.Nil) {
		return profile.Profile{}, store.ErrProfileNotFound
	}
	if err != nil {
		return profile.Profile{}, store.Unavailable("redis: get profile", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return profile.Profile{}, store.Unavailable("redis: decode profile", err)
	}

	return p, nil
}

// PutProfile replaces the document and moves its index memberships in one MULTI/EXEC,
// watching the document key so a concurrent write cannot leave a stale index entry.
func (s *Store) PutProfile(ctx context.Context, username string, p profile.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := s.profileKey(username)

	txf := func(tx *redis.Tx) error {
		var old *profile.Profile

		raw, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var prev profile.Profile
			if err := json.Unmarshal([]byte(raw), &prev); err == nil {
				old = &prev
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, doc, 0)
			pipe.SAdd(ctx, s.allProfilesKey(), username)

			for _, field := range profile.SearchFields {
				if old != nil {
					pipe.SRem(ctx, s.indexKey(field, old.SearchKey(field)), username)
				}
				pipe.SAdd(ctx, s.indexKey(field, p.SearchKey(field)), username)
			}
			return nil
		})
		return err
	}

	err = s.prom.ObserveStore(backend, "profiles.put", func() error {
		var err error
		for i := 0; i < maxTxAttempts; i++ {
			err = s.client.Watch(ctx, txf, key)
			if !errors.Is(err, redis.TxFailedErr) {
				return err
			}
		}
		return err
	})

	return store.Unavailable("redis: put profile", err)
}

func (s *Store) FindProfilesByNormalizedField(ctx context.Context, field, value string) (map[string]profile.Profile, error) {
	if !profile.IsSearchField(field) {
		return nil, store.ErrInvalidField
	}

	var usernames []string

	err := s.prom.ObserveStore(backend, "profiles.find."+field, func() error {
		var err error
		usernames, err = s.client.SMembers(ctx, s.indexKey(field, value)).Result()
		return err
	})
	if err != nil {
		return nil, store.Unavailable("redis: read index", err)
	}

	found, err := s.loadProfiles(ctx, usernames)
	if err != nil {
		return nil, err
	}

	// drop index entries whose document no longer carries the key
	for username, p := range found {
		if p.SearchKey(field) != value {
			delete(found, username)
		}
	}

	return found, nil
}

func (s *Store) ListProfiles(ctx context.Context) (map[string]profile.Profile, error) {
	var usernames []string

	err := s.prom.ObserveStore(backend, "profiles.list", func() error {
		var err error
		usernames, err = s.client.SMembers(ctx, s.allProfilesKey()).Result()
		return err
	})
	if err != nil {
		return nil, store.Unavailable("redis: list profiles", err)
	}

	return s.loadProfiles(ctx, usernames)
}

func (s *Store) loadProfiles(ctx context.Context, usernames []string) (map[string]profile.Profile, error) {
	out := make(map[string]profile.Profile, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}

	keys := make([]string, len(usernames))
	for i, username := range usernames {
		keys[i] = s.profileKey(username)
	}

	var values []interface{}

	err := s.prom.ObserveStore(backend, "profiles.mget", func() error {
		var err error
		values, err = s.client.MGet(ctx, keys...).Result()
		return err
	})
	if err != nil {
		return nil, store.Unavailable("redis: load profiles", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var p profile.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, store.Unavailable("redis: decode profile", err)
		}
		out[usernames[i]] = p
	}

	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
