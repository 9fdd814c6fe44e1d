package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// tokenClaims is the wire form of the JWT payload.
type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// jwtTokenCodec signs HS256 tokens with a symmetric key.
type jwtTokenCodec struct {
	key []byte
	now func() time.Time
}

// NewTokenCodec creates a TokenCodec that signs with key. A nil now defaults to time.Now.
func NewTokenCodec(key []byte, now func() time.Time) (TokenCodec, error) {
	if len(key) == 0 {
		return nil, authDomain.ErrEmptySigningKey
	}
	if now == nil {
		now = time.Now
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &jwtTokenCodec{key: k, now: now}, nil
}

// Issue signs a token carrying sub, iat, exp and type. iat and exp have second precision.
func (j *jwtTokenCodec) Issue(subject string, tokenType authDomain.TokenType, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "token subject is empty")
	}
	if ttl <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "token ttl must be positive")
	}

	issuedAt := j.now()
	claims := tokenClaims{
		Type: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (j *jwtTokenCodec) Verify(token string) bool {
	return j.Inspect(token) == authDomain.VerifyOK
}

func (j *jwtTokenCodec) Inspect(token string) (result authDomain.VerifyResult) {
	defer func() {
		if recover() != nil {
			result = authDomain.VerifyMalformed
		}
	}()

	_, err := j.parse(token, true)
	return classify(err)
}

func (j *jwtTokenCodec) SubjectOf(token string) (string, error) {
	claims, err := j.parse(token, true)
	if err != nil {
		return "", authDomain.ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", authDomain.ErrMalformedToken
	}
	return claims.Subject, nil
}

func (j *jwtTokenCodec) ClaimsOf(token string) (*authDomain.Claims, error) {
	claims, err := j.parse(token, false)
	if err != nil {
		return nil, authDomain.ErrMalformedToken
	}
	if claims.ExpiresAt == nil || claims.Subject == "" {
		return nil, authDomain.ErrMalformedToken
	}

	out := &authDomain.Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		Type:      authDomain.TokenType(claims.Type),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// parse checks the signature and, when validateClaims is set, that exp is present and
// in the future.
func (j *jwtTokenCodec) parse(token string, validateClaims bool) (*tokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		// Non-zero trailing bits in a segment are rejected rather than ignored.
		jwt.WithStrictDecoding(),
	}
	if validateClaims {
		opts = append(opts, jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, j.keyFunc, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func (j *jwtTokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return j.key, nil
}

func classify(err error) authDomain.VerifyResult {
	switch {
	case err == nil:
		return authDomain.VerifyOK
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.VerifyExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.VerifySignature
	default:
		return authDomain.VerifyMalformed
	}
}
