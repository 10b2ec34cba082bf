package profile_test

import (
	"testing"

	"github.com/geocoder89/userhub/internal/domain/profile"
)

func TestFromRequest_DerivesSearchKeys(t *testing.T) {
	p := profile.FromRequest(profile.SetProfileRequest{
		Token:     "ignored",
		FirstName: "José",
		LastName:  "Dvořák",
		Email:     "jose@example.com",
	})

	if p.FirstName != "José" || p.LastName != "Dvořák" {
		t.Fatalf("display names must be kept as given, got %q %q", p.FirstName, p.LastName)
	}
	if p.SearchOptimized.FirstName != "jose" {
		t.Fatalf("expected normalized first name jose, got %q", p.SearchOptimized.FirstName)
	}
	if p.SearchOptimized.LastName != "dvorak" {
		t.Fatalf("expected normalized last name dvorak, got %q", p.SearchOptimized.LastName)
	}
	if p.Image != "" || p.About != "" || p.Phone != "" || p.BirthDate != "" {
		t.Fatalf("absent fields must default to empty strings: %+v", p)
	}
}

func TestReindexed_RepairsStaleKeys(t *testing.T) {
	stale := profile.Profile{
		FirstName:       "Renée",
		SearchOptimized: profile.SearchOptimized{FirstName: "old", LastName: "old"},
	}

	fresh := stale.Reindexed()

	if fresh.SearchOptimized.FirstName != "renee" || fresh.SearchOptimized.LastName != "" {
		t.Fatalf("unexpected search keys: %+v", fresh.SearchOptimized)
	}
	if stale.SearchOptimized.FirstName != "old" {
		t.Fatalf("Reindexed must not mutate the receiver")
	}
}

func TestSearchKey(t *testing.T) {
	p := profile.FromRequest(profile.SetProfileRequest{FirstName: "Ana", LastName: "Núñez"})

	if got := p.SearchKey(profile.FieldFirstName); got != "ana" {
		t.Fatalf("firstName key = %q", got)
	}
	if got := p.SearchKey(profile.FieldLastName); got != "nunez" {
		t.Fatalf("lastName key = %q", got)
	}
	if got := p.SearchKey("email"); got != "" {
		t.Fatalf("unknown field should give empty key, got %q", got)
	}
	if profile.IsSearchField("email") {
		t.Fatalf("email is not a search field")
	}
}
