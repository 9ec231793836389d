package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService is the PASETO-backed TokenService. Uses v4.local (symmetric
// encryption with XChaCha20-Poly1305) with one key per token class.
type PasetoService struct {
	accessKey       paseto.V4SymmetricKey
	refreshKey      paseto.V4SymmetricKey
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewPasetoService(accessKey, refreshKey []byte, accessDuration, refreshDuration time.Duration) (*PasetoService, error) {
	if len(accessKey) != 32 || len(refreshKey) != 32 {
		return nil, fmt.Errorf("symmetric keys must be exactly 32 bytes, got %d and %d", len(accessKey), len(refreshKey))
	}

	access, err := paseto.V4SymmetricKeyFromBytes(accessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create access key: %w", err)
	}

	refresh, err := paseto.V4SymmetricKeyFromBytes(refreshKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh key: %w", err)
	}

	return &PasetoService{
		accessKey:       access,
		refreshKey:      refresh,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}, nil
}

// Issue creates a v4.local token of the given class for the user.
func (s *PasetoService) Issue(userID uuid.UUID, class TokenClass) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.duration(class)))
	token.SetSubject(userID.String())

	return token.V4Encrypt(s.key(class), nil), nil
}

// Verify decrypts the token with the key of the expected class and returns
// the embedded user id.
func (s *PasetoService) Verify(tokenStr string, class TokenClass) (uuid.UUID, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.key(class), tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

func (s *PasetoService) key(class TokenClass) paseto.V4SymmetricKey {
	if class == TokenClassRefresh {
		return s.refreshKey
	}
	return s.accessKey
}

func (s *PasetoService) duration(class TokenClass) time.Duration {
	if class == TokenClassRefresh {
		return s.refreshDuration
	}
	return s.accessDuration
}
