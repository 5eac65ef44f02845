// Package auth decides whether a caller is the journal admin.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"strings"

	"tableflip.dev/journal/pkg/entry"
)

// DemoPassword is accepted when no password was ever set.
const DemoPassword = "grind"

// Authenticator checks admin passwords. Stored passwords may be an argon2id
// hash, a hex SHA-256 digest or plain text.
type Authenticator struct {
	Hasher *Hasher
	// Override, when set, replaces the password stored in settings.
	Override string
}

// New returns an Authenticator with the default hasher.
func New(override string) *Authenticator {
	return &Authenticator{Hasher: NewHasher(), Override: override}
}

// Stored returns the password the check will compare against.
func (a *Authenticator) Stored(settings *entry.Settings) string {
	if a.Override != "" {
		return a.Override
	}
	if settings != nil && settings.AdminPassword != "" {
		return settings.AdminPassword
	}
	return DemoPassword
}

// Check reports whether password unlocks the journal described by settings.
func (a *Authenticator) Check(settings *entry.Settings, password string) bool {
	if password == "" {
		return false
	}
	return a.Matches(a.Stored(settings), password)
}

// Matches compares password with one stored value.
func (a *Authenticator) Matches(stored, password string) bool {
	switch {
	case strings.HasPrefix(stored, argon2Prefix):
		h := a.Hasher
		if h == nil {
			h = NewHasher()
		}
		ok, err := h.Verify(password, stored)
		if err != nil {
			log.Printf("journal: admin password hash: %v", err)
			return false
		}
		return ok
	case IsDigest(stored):
		return equal(strings.ToLower(stored), Digest(password))
	default:
		return equal(stored, password)
	}
}

// Hash encodes password with argon2id.
func (a *Authenticator) Hash(password string) (string, error) {
	h := a.Hasher
	if h == nil {
		h = NewHasher()
	}
	return h.Hash(password)
}

// Digest is the legacy hex SHA-256 form of password.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsDigest reports whether s looks like a hex SHA-256 digest.
func IsDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
