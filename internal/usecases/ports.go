package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kemea.backend/internal/infrastructure/google"
	"kemea.backend/pkg/crypto"
)

// EmailRenderer turns a named template into an HTML body.
type EmailRenderer interface {
	Render(name string, data map[string]interface{}) (string, error)
}

// TokenRevoker backs the refresh-token blacklist and single-use reset tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, tokenID string) error
}

// ResetTokenCodec seals a user id into an opaque, expiring reset token.
type ResetTokenCodec interface {
	Encrypt(userID uuid.UUID) (string, error)
	Decrypt(token string) (*crypto.ResetClaims, error)
}

// IdentityVerifier validates a Google ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Identity, error)
}
