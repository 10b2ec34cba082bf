// Package store defines the document store contract shared by the backends
// under internal/repo and the HTTP handlers.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/domain/user"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidField    = errors.New("field is not searchable")

	// ErrUnavailable tags every failure coming from the store itself.
	ErrUnavailable = errors.New("store unavailable")
)

type Users interface {
	GetUser(ctx context.Context, username string) (user.User, error)
	PutUser(ctx context.Context, u user.User) error
	// CreateUser writes u only if the username is free, else ErrUserExists.
	CreateUser(ctx context.Context, u user.User) error
}

type Profiles interface {
	GetProfile(ctx context.Context, username string) (profile.Profile, error)
	// PutProfile replaces the whole document.
	PutProfile(ctx context.Context, username string, p profile.Profile) error
	FindProfilesByNormalizedField(ctx context.Context, field, value string) (map[string]profile.Profile, error)
	ListProfiles(ctx context.Context) (map[string]profile.Profile, error)
}

type Store interface {
	Users
	Profiles
	Ping(ctx context.Context) error
	Close() error
}

// Unavailable wraps an infrastructure error so callers can match ErrUnavailable.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func UserPath(username string) string {
	return "users/" + username
}

func ProfilePath(username string) string {
	return "profiles/" + username
}
