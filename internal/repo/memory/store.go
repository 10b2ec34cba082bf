package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/store"
)

const backend = "memory"

// Store keeps users and profiles in process memory.
type Store struct {
	mu       sync.RWMutex
	users    map[string]user.User
	profiles map[string]profile.Profile
	prom     *observability.Prom
}

func NewStore(prom *observability.Prom) *Store {
	return &Store{
		users:    make(map[string]user.User),
		profiles: make(map[string]profile.Profile),
		prom:     prom,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) GetUser(ctx context.Context, username string) (u user.User, err error) {
	err = s.prom.ObserveStore(backend, "users.get", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		found, ok := s.users[username]
		if !ok {
			return store.ErrUserNotFound
		}
		u = found
		return nil
	})
	return
}

func (s *Store) PutUser(ctx context.Context, u user.User) error {
	return s.prom.ObserveStore(backend, "users.put", func() error {
		s.mu.Lock()
		s.users[u.Username] = u
		s.mu.Unlock()
		return nil
	})
}

func (s *Store) CreateUser(ctx context.Context, u user.User) error {
	return s.prom.ObserveStore(backend, "users.create", func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.users[u.Username]; ok {
			return store.ErrUserExists
		}
		s.users[u.Username] = u
		return nil
	})
}

func (s *Store) GetProfile(ctx context.Context, username string) (p profile.Profile, err error) {
	err = s.prom.ObserveStore(backend, "profiles.get", func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		found, ok := s.profiles[username]
		if !ok {
			return store.ErrProfileNotFound
		}
		p = found
		return nil
	})
	return
}

func (s *Store) PutProfile(ctx context.Context, username string, p profile.Profile) error {
	return s.prom.ObserveStore(backend, "profiles.put", func() error {
		s.mu.Lock()
		s.profiles[username] = p
		s.mu.Unlock()
		return nil
	})
}

func (s *Store) FindProfilesByNormalizedField(ctx context.Context, field, value string) (map[string]profile.Profile, error) {
	if !profile.IsSearchField(field) {
		return nil, store.ErrInvalidField
	}

	out := make(map[string]profile.Profile)

	err := s.prom.ObserveStore(backend, "profiles.find."+field, func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for username, p := range s.profiles {
			if p.SearchKey(field) == value {
				out[username] = p
			}
		}
		return nil
	})

	return out, err
}

func (s *Store) ListProfiles(ctx context.Context) (map[string]profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]profile.Profile, len(s.profiles))
	for username, p := range s.profiles {
		out[username] = p
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
