package redis

import (
	"context"
	"time"
)

const (
	revokedPrefix  = "revoked:"
	consumedPrefix = "consumed:"
)

// TokenStore keeps short-lived token bookkeeping in redis: revoked refresh
// tokens and single-use capability tokens.
type TokenStore struct{}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Revoke marks a token id as unusable until ttl elapses. It returns false if
// the id was already revoked.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	return SetNX(ctx, revokedPrefix+tokenID, "1", ttl)
}

// IsRevoked reports whether a token id was revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return Exists(ctx, revokedPrefix+tokenID)
}

// Consume burns a single-use token id. Only the first caller gets true.
func (s *TokenStore) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	return SetNX(ctx, consumedPrefix+tokenID, "1", ttl)
}

// Release undoes Consume so the token id can be used again.
func (s *TokenStore) Release(ctx context.Context, tokenID string) error {
	return Del(ctx, consumedPrefix+tokenID)
}
