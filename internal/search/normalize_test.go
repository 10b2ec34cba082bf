package search_test

import (
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/geocoder89/userhub/internal/search"
	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José", "jose"},
		{"JOSÉ", "jose"},
		{"Zoë", "zoe"},
		{"Ångström", "angstrom"},
		{"François", "francois"},
		{"Mary Ann", "maryann"},
		{" leading", "leading"},
		{"a b c", "ab c"}, // only the first whitespace character goes
		{"a  b", "a b"},
		{"tab\there", "tabhere"},
		{"Jose\u0301", "jose"}, // already decomposed input
		{"", ""},
		{"Łukasz", "łukasz"}, // stroke is not a combining mark
		{"a\u0085b", "a\u0085b"}, // NEL is not whitespace here
		{"a\ufeffb", "ab"},
		{"a\u00a0b", "ab"},
		{"a\u3000b", "ab"},
		{"ΟΔΟΣ", "οδος"}, // word-final sigma
		{"ΣΟΦΙΑ", "σοφια"},
	}

	for _, tc := range tests {
		if got := search.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Properties(t *testing.T) {
	inputs := []string{
		"José", "MÜLLER", "Ærøskøbing", "Nguyễn", "Dvořák", "Ñandú", "Ōtsuka",
		"Mary Ann", "Çelik", "éàüîõ", "plain", "123abc", "Renée",
	}

	for _, in := range inputs {
		once := search.Normalize(in)

		if twice := search.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.ToLower(once) != once {
			t.Errorf("Normalize(%q) = %q is not lower case", in, once)
		}
		if !norm.NFD.IsNormalString(once) {
			t.Errorf("Normalize(%q) = %q is not NFD", in, once)
		}
		for _, r := range once {
			if r >= 0x0300 && r <= 0x036f {
				t.Errorf("Normalize(%q) = %q still has combining mark %U", in, once, r)
			}
			if unicode.IsUpper(r) {
				t.Errorf("Normalize(%q) = %q has upper case rune %q", in, once, r)
			}
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"José", []string{"jose"}},
		{"José Silva", []string{"jose", "silva"}},
		{"  Ana  ", []string{"ana"}},
		{"", []string{}},
		{" ", []string{}},
		{"   ", []string{}},
		{"ΟΔΟΣ Ana", []string{"οδος", "ana"}},
		{"Müller Dvořák Renée", []string{"muller", "dvorak", "renee"}},
	}

	for _, tc := range tests {
		got := search.Tokens(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokens(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
