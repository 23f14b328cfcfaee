// Package cryptox holds the password hashing used for stored accounts.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Hasher turns a plaintext password into the value persisted as the user's
// password hash. It must be deterministic: logins look the account up by
// (email, hash).
type Hasher func(plaintext string) string

// DeriveKey stretches password with argon2id under salt into a 32-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// NewPasswordHasher returns a Hasher producing hex-encoded argon2id keys under
// the application-wide salt.
func NewPasswordHasher(salt string) Hasher {
	s := []byte(salt)
	return func(plaintext string) string {
		return hex.EncodeToString(DeriveKey([]byte(plaintext), s))
	}
}
