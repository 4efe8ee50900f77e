// Package password derives and verifies credential hashes. It is pure:
// callers own storage of the salt and hash values.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLen     = 32
	saltLen          = 32
)

// Hash derives the hex-encoded PBKDF2-SHA256 hash for a password and salt.
// The same inputs always produce the same output.
func Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// HashNew generates a fresh random salt and returns the derived hash with it.
func HashNew(password string) (hash, salt string, err error) {
	buf := make([]byte, saltLen)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(buf)
	return Hash(password, salt), salt, nil
}

// Verify reports whether password matches the expected hash for the salt.
func Verify(password, salt, expected string) bool {
	check := Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(check), []byte(expected)) == 1
}
