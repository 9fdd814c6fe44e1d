package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"

	// Register KMS provider drivers for JWT_KMS_KEY_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// minSigningKeyLen is the HS256 key size recommended by RFC 7518.
const minSigningKeyLen = 32

// LoadSigningKey turns the configured JWT secret into raw key bytes.
//
// Without kmsKeyURI the secret is the base64-encoded key itself. With a URI the secret
// is a base64-encoded ciphertext that the keeper behind the URI decrypts. Supported
// schemes: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func LoadSigningKey(ctx context.Context, secret, kmsKeyURI string) ([]byte, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "JWT_SECRET is not set")
	}

	raw, err := decodeBase64(secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "JWT_SECRET is not valid base64")
	}

	if kmsKeyURI == "" {
		return checkKeyLen(raw)
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt JWT signing key: %w", err)
	}
	return checkKeyLen(key)
}

func checkKeyLen(key []byte) ([]byte, error) {
	if len(key) < minSigningKeyLen {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("JWT signing key must be at least %d bytes, got %d", minSigningKeyLen, len(key)),
		)
	}
	return key, nil
}

// decodeBase64 accepts the standard and URL alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
