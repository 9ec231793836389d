package auth

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		code, err := generateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)

		seen[code] = true
	}

	// 200 draws from 900k values collide sometimes, but never collapse to a
	// handful of codes.
	assert.Greater(t, len(seen), 190)
}

func TestGenerateResetCode(t *testing.T) {
	code := generateResetCode()

	parsed, err := uuid.Parse(code)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsed)

	assert.NotEqual(t, code, generateResetCode())
}
