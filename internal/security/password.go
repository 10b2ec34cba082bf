package security

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the hex SHA-1 digest of password+salt, the format of stored user records.
func HashPassword(password, salt string) string {
	sum := sha1.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// ErrPasswordTooLong is returned by hashers with an input length limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Hasher turns plaintext passwords into the stored form and checks them back.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type SaltedSHA1 struct {
	salt string
}

func NewSaltedSHA1(salt string) *SaltedSHA1 {
	return &SaltedSHA1{salt: salt}
}

func (h *SaltedSHA1) Hash(plain string) (string, error) {
	return HashPassword(plain, h.salt), nil
}

func (h *SaltedSHA1) Verify(hash, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(plain, h.salt))) == 1
}

// Bcrypt is opt-in. Records written by SaltedSHA1 do not verify under it.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (h *Bcrypt) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (h *Bcrypt) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewHasher picks the implementation for a configured scheme name.
func NewHasher(scheme, salt string) (Hasher, error) {
	switch scheme {
	case "", "sha1":
		return NewSaltedSHA1(salt), nil
	case "bcrypt":
		return NewBcrypt(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", scheme)
	}
}
