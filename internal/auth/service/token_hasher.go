package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// sha256TokenHasher keys revocation rows by the SHA-256 of the token so raw tokens
// never reach the database or the cache.
type sha256TokenHasher struct{}

// NewTokenHasher creates a TokenHasher using SHA-256.
func NewTokenHasher() TokenHasher {
	return &sha256TokenHasher{}
}

func (s *sha256TokenHasher) HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
