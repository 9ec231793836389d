package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAccessKey  = []byte("0123456789abcdef0123456789abcdef")
	testRefreshKey = []byte("fedcba9876543210fedcba9876543210")
)

// tokenServices builds one signer per backend so every behavioral test runs
// against both.
func tokenServices(t *testing.T, accessDuration, refreshDuration time.Duration) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService(testAccessKey, testRefreshKey, accessDuration, refreshDuration)
	require.NoError(t, err)

	pasetoSvc, err := NewPasetoService(testAccessKey, testRefreshKey, accessDuration, refreshDuration)
	require.NoError(t, err)

	return map[string]TokenService{"jwt": jwtSvc, "paseto": pasetoSvc}
}

func TestTokenRoundTrip(t *testing.T) {
	for name, svc := range tokenServices(t, time.Hour, 24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			userID := uuid.New()

			for _, class := range []TokenClass{TokenClassAccess, TokenClassRefresh} {
				token, err := svc.Issue(userID, class)
				require.NoError(t, err)
				require.NotEmpty(t, token)

				got, err := svc.Verify(token, class)
				require.NoError(t, err)
				assert.Equal(t, userID, got)
			}
		})
	}
}

func TestTokenClassIsolation(t *testing.T) {
	for name, svc := range tokenServices(t, time.Hour, 24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			userID := uuid.New()

			accessToken, err := svc.Issue(userID, TokenClassAccess)
			require.NoError(t, err)
			refreshToken, err := svc.Issue(userID, TokenClassRefresh)
			require.NoError(t, err)

			_, err = svc.Verify(accessToken, TokenClassRefresh)
			assert.ErrorIs(t, err, ErrInvalidToken)

			_, err = svc.Verify(refreshToken, TokenClassAccess)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	for name, svc := range tokenServices(t, -time.Minute, -time.Minute) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.Issue(uuid.New(), TokenClassAccess)
			require.NoError(t, err)

			_, err = svc.Verify(token, TokenClassAccess)
			assert.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestTokenTampering(t *testing.T) {
	for name, svc := range tokenServices(t, time.Hour, 24*time.Hour) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.Issue(uuid.New(), TokenClassAccess)
			require.NoError(t, err)

			tampered := token[:len(token)-4] + "AAAA"
			if tampered == token {
				tampered = token[:len(token)-4] + "BBBB"
			}

			_, err = svc.Verify(tampered, TokenClassAccess)
			assert.ErrorIs(t, err, ErrInvalidToken)

			_, err = svc.Verify("not-a-token", TokenClassAccess)
			assert.ErrorIs(t, err, ErrInvalidToken)

			_, err = svc.Verify("", TokenClassAccess)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenCrossBackend(t *testing.T) {
	services := tokenServices(t, time.Hour, 24*time.Hour)

	jwtToken, err := services["jwt"].Issue(uuid.New(), TokenClassAccess)
	require.NoError(t, err)

	_, err = services["paseto"].Verify(jwtToken, TokenClassAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pasetoToken, err := services["paseto"].Issue(uuid.New(), TokenClassAccess)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pasetoToken, "v4.local."))

	_, err = services["jwt"].Verify(pasetoToken, TokenClassAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTServiceValidation(t *testing.T) {
	_, err := NewJWTService(nil, testRefreshKey, time.Hour, 24*time.Hour)
	require.Error(t, err)

	_, err = NewJWTService(testAccessKey, nil, time.Hour, 24*time.Hour)
	require.Error(t, err)
}

func TestNewPasetoServiceValidation(t *testing.T) {
	_, err := NewPasetoService([]byte("too-short"), testRefreshKey, time.Hour, 24*time.Hour)
	require.Error(t, err)

	_, err = NewPasetoService(testAccessKey, []byte("too-short"), time.Hour, 24*time.Hour)
	require.Error(t, err)
}
