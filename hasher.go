package accounts

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// LegacyHasher reproduces the historical two-stage credential digest: the
// plaintext is digested with MD5, the lowercase hex of that digest is
// re-digested with SHA-256, and the lowercase hex of the result is stored.
//
// It is deterministic and unsalted, kept only so existing stored
// credentials keep verifying. New deployments should use BcryptHasher.
type LegacyHasher struct{}

var _ Hasher = LegacyHasher{}

// Hash never fails; any input byte sequence produces a digest.
func (LegacyHasher) Hash(plaintext string) (string, error) {
	fast := md5.Sum([]byte(plaintext))
	inner := hex.EncodeToString(fast[:])

	strong := sha256.Sum256([]byte(inner))
	return hex.EncodeToString(strong[:]), nil
}

// Compare checks a plaintext candidate against a stored digest
func (h LegacyHasher) Compare(plaintext, digest string) error {
	computed, _ := h.Hash(plaintext)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}
