package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService issues and verifies HS256-signed tokens. The only claim payload
// is the user id (subject); lifetime and secret depend on the token class.
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewJWTService(accessSecret, refreshSecret []byte, accessDuration, refreshDuration time.Duration) (*JWTService, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, fmt.Errorf("token secrets must not be empty")
	}

	return &JWTService{
		accessSecret:    accessSecret,
		refreshSecret:   refreshSecret,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}, nil
}

// Issue creates a signed token of the given class for the user.
func (s *JWTService) Issue(userID uuid.UUID, class TokenClass) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration(class))),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret(class))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", class, err)
	}

	return signed, nil
}

// Verify checks the token against the secret of the expected class and
// returns the embedded user id. Expired-but-well-signed tokens yield
// ErrExpiredToken; every other failure yields ErrInvalidToken.
func (s *JWTService) Verify(tokenStr string, class TokenClass) (uuid.UUID, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret(class), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

func (s *JWTService) secret(class TokenClass) []byte {
	if class == TokenClassRefresh {
		return s.refreshSecret
	}
	return s.accessSecret
}

func (s *JWTService) duration(class TokenClass) time.Duration {
	if class == TokenClassRefresh {
		return s.refreshDuration
	}
	return s.accessDuration
}
