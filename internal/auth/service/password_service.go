package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// passwordService hashes with Argon2id and still accepts bcrypt hashes carried over
// from the previous user store.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		// only reachable with an invalid built-in policy
		panic(err)
	}

	return &passwordService{hasher: hasher}
}

func (p *passwordService) Hash(password string) (string, error) {
	hash, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

func (p *passwordService) Compare(password, hash string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}

	ok, err := p.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
