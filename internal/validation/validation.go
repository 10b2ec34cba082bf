// Package validation holds the shape rules for account credentials.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// lower case letters and digits only, at least 4 characters
	usernamePattern = regexp.MustCompile(`^[a-z0-9]{4,}$`)

	passwordAlphabet = regexp.MustCompile(`^[A-Za-z0-9$@!%*?&+\-_]{6,}$`)
	hasLower         = regexp.MustCompile(`[a-z]`)
	hasUpper         = regexp.MustCompile(`[A-Z]`)
	hasDigit         = regexp.MustCompile(`[0-9]`)
	hasSpecial       = regexp.MustCompile(`[$@!%*?&+\-_]`)
)

func IsUsernameValid(s string) bool {
	return usernamePattern.MatchString(s)
}

// IsPasswordValid requires one lower case letter, one upper case letter,
// one digit and one of $@!%*?&+-_, with at least 6 characters overall.
func IsPasswordValid(s string) bool {
	return passwordAlphabet.MatchString(s) &&
		hasLower.MatchString(s) &&
		hasUpper.MatchString(s) &&
		hasDigit.MatchString(s) &&
		hasSpecial.MatchString(s)
}

// HasNoNUL reports whether s is free of NUL bytes, which Postgres text columns refuse.
func HasNoNUL(s string) bool {
	return strings.IndexByte(s, 0) < 0
}

// RegisterRules exposes the checks as "username", "password" and "nonul" tags.
func RegisterRules(v *validator.Validate) error {
	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsUsernameValid(fl.Field().String())
	})
	if err != nil {
		return err
	}

	err = v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return HasNoNUL(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsPasswordValid(fl.Field().String())
	})
}
