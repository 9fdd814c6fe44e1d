package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	Authorities []string
}

// HasAuthority reports whether the principal was granted the named authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, authority)
}

// LoginOutput is returned on successful login.
type LoginOutput struct {
	AccessToken        string
	RefreshToken       string
	AccessExpiresInMs  int64
	RefreshExpiresInMs int64
}

// Profile describes the current user for the "me" endpoint.
type Profile struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Role      string
	CreatedAt time.Time
}

// LoginInput carries login credentials. UsernameOrEmail is matched against the username
// first and the email second.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}
