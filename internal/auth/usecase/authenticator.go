package usecase

import (
	"context"
	"errors"
	"sync"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// decoyPassword is hashed once per process. Unknown users are compared against that hash
// so a login for a missing account costs as much as one with a wrong password.
const decoyPassword = "kidsgpt-decoy-password"

type passwordAuthenticator struct {
	users     UserReader
	passwords authService.PasswordService
	decoyHash func() string
}

// NewAuthenticator creates an Authenticator that checks password hashes from users.
func NewAuthenticator(users UserReader, passwords authService.PasswordService) Authenticator {
	return &passwordAuthenticator{
		users:     users,
		passwords: passwords,
		decoyHash: sync.OnceValue(func() string {
			hash, err := passwords.Hash(decoyPassword)
			if err != nil {
				return ""
			}
			return hash
		}),
	}
}

func (a *passwordAuthenticator) Authenticate(
	ctx context.Context,
	usernameOrEmail, password string,
) (*authDomain.Principal, error) {
	user, err := findUser(ctx, a.users, usernameOrEmail)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			if hash := a.decoyHash(); hash != "" {
				_ = a.passwords.Compare(password, hash)
			}
		}
		return nil, err
	}

	if !a.passwords.Compare(password, user.PasswordHash) {
		return nil, authDomain.ErrPasswordMismatch
	}

	return principalFor(ctx, a.users, user)
}
