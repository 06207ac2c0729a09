package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	josejwt "github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
)

var (
	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrExpiredResetToken = errors.New("reset token has expired")
)

// ResetClaims is the decrypted content of a password reset token.
type ResetClaims struct {
	TokenID   string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// ResetTokenCipher seals a user id into a compact JWE (dir + A256GCM) that only
// this service can open.
type ResetTokenCipher struct {
	key       []byte
	encrypter jose.Encrypter
	ttl       time.Duration
	now       func() time.Time
}

// NewResetTokenCipher takes a 32-byte key encoded as 64 hex characters.
func NewResetTokenCipher(hexKey string, ttl time.Duration) (*ResetTokenCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token key: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("reset token key must be 32 bytes")
	}

	enc, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key},
		(&jose.EncrypterOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypter: %w", err)
	}

	return &ResetTokenCipher{key: key, encrypter: enc, ttl: ttl, now: time.Now}, nil
}

// Encrypt issues a token for userID valid for the configured TTL.
func (c *ResetTokenCipher) Encrypt(userID uuid.UUID) (string, error) {
	now := c.now()
	claims := josejwt.Claims{
		ID:       uuid.NewString(),
		Subject:  userID.String(),
		IssuedAt: josejwt.NewNumericDate(now),
		Expiry:   josejwt.NewNumericDate(now.Add(c.ttl)),
	}
	token, err := josejwt.Encrypted(c.encrypter).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to encrypt reset token: %w", err)
	}
	return token, nil
}

// Decrypt opens a token and checks its expiry.
func (c *ResetTokenCipher) Decrypt(token string) (*ResetClaims, error) {
	parsed, err := josejwt.ParseEncrypted(token)
	if err != nil {
		return nil, ErrInvalidResetToken
	}

	var claims josejwt.Claims
	if err := parsed.Claims(c.key, &claims); err != nil {
		return nil, ErrInvalidResetToken
	}

	if err := claims.ValidateWithLeeway(josejwt.Expected{Time: c.now()}, 0); err != nil {
		if errors.Is(err, josejwt.ErrExpired) {
			return nil, ErrExpiredResetToken
		}
		return nil, ErrInvalidResetToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" || claims.Expiry == nil {
		return nil, ErrInvalidResetToken
	}

	return &ResetClaims{TokenID: claims.ID, UserID: userID, ExpiresAt: claims.Expiry.Time()}, nil
}
