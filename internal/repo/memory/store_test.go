package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/store"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)

	if _, err := s.GetUser(ctx, "alice123"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := s.CreateUser(ctx, user.User{Username: "alice123", Password: "h1"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, user.User{Username: "alice123", Password: "h2"}); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	u, err := s.GetUser(ctx, "alice123")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Password != "h1" {
		t.Fatalf("second create must not overwrite, got %q", u.Password)
	}

	if err := s.PutUser(ctx, user.User{Username: "alice123", Password: "h3"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	u, _ = s.GetUser(ctx, "alice123")
	if u.Password != "h3" {
		t.Fatalf("PutUser must overwrite, got %q", u.Password)
	}
}

func TestCreateUser_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateUser(ctx, user.User{Username: "racer", Password: "h"})
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, store.ErrUserExists) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)

	if _, err := s.GetProfile(ctx, "alice123"); !errors.Is(err, store.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	jose := profile.FromRequest(profile.SetProfileRequest{FirstName: "José", LastName: "Silva"})
	ana := profile.FromRequest(profile.SetProfileRequest{FirstName: "Ana", LastName: "Jose"})

	if err := s.PutProfile(ctx, "jose1234", jose); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if err := s.PutProfile(ctx, "ana12345", ana); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}

	byFirst, err := s.FindProfilesByNormalizedField(ctx, profile.FieldFirstName, "jose")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(byFirst) != 1 || byFirst["jose1234"].FirstName != "José" {
		t.Fatalf("unexpected firstName matches: %+v", byFirst)
	}

	byLast, err := s.FindProfilesByNormalizedField(ctx, profile.FieldLastName, "jose")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if _, ok := byLast["ana12345"]; !ok || len(byLast) != 1 {
		t.Fatalf("unexpected lastName matches: %+v", byLast)
	}

	if _, err := s.FindProfilesByNormalizedField(ctx, "email", "x"); !errors.Is(err, store.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}

	// full replace: the old key no longer matches
	if err := s.PutProfile(ctx, "jose1234", profile.FromRequest(profile.SetProfileRequest{FirstName: "Pedro"})); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	byFirst, _ = s.FindProfilesByNormalizedField(ctx, profile.FieldFirstName, "jose")
	if len(byFirst) != 0 {
		t.Fatalf("stale match after replace: %+v", byFirst)
	}

	all, err := s.ListProfiles(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListProfiles = %v, %v", all, err)
	}
}
