package usecase

import (
	"context"
	"errors"
	"strings"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

type principalResolver struct {
	users UserReader
}

// NewPrincipalResolver creates a PrincipalResolver reading from users.
func NewPrincipalResolver(users UserReader) PrincipalResolver {
	return &principalResolver{users: users}
}

func (p *principalResolver) Resolve(ctx context.Context, usernameOrEmail string) (*authDomain.Principal, error) {
	user, err := findUser(ctx, p.users, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	return principalFor(ctx, p.users, user)
}

// findUser tries the username first and falls back to the (lowercased) email. Accounts
// that cannot authenticate are reported as not found.
func findUser(ctx context.Context, users UserReader, usernameOrEmail string) (*userDomain.User, error) {
	if usernameOrEmail == "" {
		return nil, userDomain.ErrUserNotFound
	}

	user, err := users.GetByUsername(ctx, usernameOrEmail)
	if errors.Is(err, userDomain.ErrUserNotFound) {
		user, err = users.GetByEmail(ctx, strings.ToLower(usernameOrEmail))
	}
	if err != nil {
		return nil, err
	}

	if !user.CanAuthenticate() {
		return nil, userDomain.ErrUserNotFound
	}
	return user, nil
}

func principalFor(ctx context.Context, users UserReader, user *userDomain.User) (*authDomain.Principal, error) {
	roles, err := users.ListRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &authDomain.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Authorities: roles,
	}, nil
}
