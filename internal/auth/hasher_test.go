package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", hash)

	assert.True(t, hasher.Verify("Password123", hash))
	assert.False(t, hasher.Verify("WrongPassword", hash))
	assert.False(t, hasher.Verify("Password123", "not-a-hash"))

	// Same password hashes to different values thanks to the salt.
	second, err := hasher.Hash("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}

func TestBcryptHasherCostClamping(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hasher := NewBcryptHasher(cost)

		hash, err := hasher.Hash("Password123")
		require.NoError(t, err)
		assert.True(t, hasher.Verify("Password123", hash))
	}
}

func TestArgon2Hasher(t *testing.T) {
	hasher := NewArgon2Hasher()

	hash, err := hasher.Hash("Password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, hasher.Verify("Password123", hash))
	assert.False(t, hasher.Verify("WrongPassword", hash))
	assert.False(t, hasher.Verify("Password123", "$argon2id$garbage"))
	assert.False(t, hasher.Verify("Password123", ""))
}
