// Package auth issues and verifies session tokens and hashes passwords.
//
// Tokens are fernet tokens whose payload is the user ID. Their lifetime is
// enforced at verification time from the timestamp fernet embeds.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/investifai/investif/internal/apperrors"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	keys []*fernet.Key
	ttl  time.Duration
}

// NewTokenIssuer creates an issuer from a base64 fernet key. With an empty
// key a random one is generated, so tokens do not survive a restart.
func NewTokenIssuer(encodedKey string, ttl time.Duration, logger *slog.Logger) (*TokenIssuer, error) {
	var key *fernet.Key
	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate fernet key: %w", err)
		}
		logger.Warn("FERNET_KEY not set, using an ephemeral key")
	} else {
		k, err := fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid fernet key: %w", err)
		}
		key = k
	}
	return &TokenIssuer{keys: []*fernet.Key{key}, ttl: ttl}, nil
}

// Issue returns a token for userID.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(userID), t.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the user ID carried by token.
// Tampered, foreign and expired tokens yield apperrors.ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), t.ttl, t.keys)
	if msg == nil {
		return "", apperrors.ErrInvalidToken
	}
	return string(msg), nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with hash.
// A mismatch yields apperrors.ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}
