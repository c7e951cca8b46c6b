// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	valid, err := VerifyPassword("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-encoded-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("real-password")
	require.NoError(t, err)

	t.Run("known user with correct password", func(t *testing.T) {
		valid, _, err := VerifyPasswordTimingSafe("real-password", &hash)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("known user with wrong password", func(t *testing.T) {
		valid, _, err := VerifyPasswordTimingSafe("wrong", &hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("unknown user always fails", func(t *testing.T) {
		valid, rehash, err := VerifyPasswordTimingSafe("anything", nil)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Empty(t, rehash)
	})

	t.Run("empty stored hash fails", func(t *testing.T) {
		empty := ""
		valid, _, err := VerifyPasswordTimingSafe("anything", &empty)
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestHashPasswordSaltsUniquely(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)

	second, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenHashing(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	hash := HashToken(token)
	assert.NotEqual(t, token, hash)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash("different-token", hash))
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)

	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
