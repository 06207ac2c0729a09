package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResetKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestResetTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewResetTokenCipher(testResetKey, 15*time.Minute)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := c.Encrypt(userID)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(token, "."), "compact JWE has five segments")

	claims, err := c.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestResetTokenCipher_Expired(t *testing.T) {
	c, err := NewResetTokenCipher(testResetKey, time.Minute)
	require.NoError(t, err)

	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }
	token, err := c.Encrypt(uuid.New())
	require.NoError(t, err)

	c.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = c.Decrypt(token)
	assert.ErrorIs(t, err, ErrExpiredResetToken)
}

func TestResetTokenCipher_RejectsForeignAndGarbage(t *testing.T) {
	c, err := NewResetTokenCipher(testResetKey, time.Minute)
	require.NoError(t, err)
	other, err := NewResetTokenCipher(strings.Repeat("ab", 32), time.Minute)
	require.NoError(t, err)

	token, err := other.Encrypt(uuid.New())
	require.NoError(t, err)

	_, err = c.Decrypt(token)
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = c.Decrypt("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestNewResetTokenCipher_BadKey(t *testing.T) {
	_, err := NewResetTokenCipher("zz", time.Minute)
	assert.Error(t, err)

	_, err = NewResetTokenCipher("abcd", time.Minute)
	assert.Error(t, err)
}
