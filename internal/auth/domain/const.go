// Package domain defines the authentication domain models: token types and claims,
// the resolved principal, revocation records and session results.
package domain

// TokenType distinguishes access tokens from refresh tokens through the "type" claim.
type TokenType string

const (
	// AccessToken authenticates API requests.
	AccessToken TokenType = "access"

	// RefreshToken is issued alongside the access token at login.
	RefreshToken TokenType = "refresh"
)

// VerifyResult classifies the outcome of a token check. Only VerifyOK means the token is
// usable; the other values exist so callers can log why a token was rejected.
type VerifyResult int

const (
	VerifyOK VerifyResult = iota
	VerifyMalformed
	VerifySignature
	VerifyExpired
)

func (r VerifyResult) String() string {
	switch r {
	case VerifyOK:
		return "ok"
	case VerifyMalformed:
		return "malformed"
	case VerifySignature:
		return "signature"
	case VerifyExpired:
		return "expired"
	default:
		return "unknown"
	}
}
