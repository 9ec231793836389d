package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClass separates the two token populations. Each class is signed with
// its own secret, so a refresh token presented where an access token is
// expected fails verification (and vice versa).
type TokenClass int

const (
	TokenClassAccess TokenClass = iota
	TokenClassRefresh
)

func (c TokenClass) String() string {
	if c == TokenClassRefresh {
		return "refresh"
	}
	return "access"
}
