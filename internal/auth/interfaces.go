package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-auth-service/internal/user"
)

// UserStore defines the user persistence operations the auth service needs.
// Implemented by user.Repository.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) (*user.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// OtpStore defines the one-time code persistence operations.
// Implemented by OtpRepository.
type OtpStore interface {
	Create(ctx context.Context, code string, otpType OtpType, userID uuid.UUID, expiresAt time.Time) (*Otp, error)
	FindValid(ctx context.Context, code string, otpType OtpType) (*Otp, error)
	FindValidByUser(ctx context.Context, userID uuid.UUID, otpType OtpType) (*Otp, error)
	// Invalidate is a conditional update: it only succeeds on a code that is
	// still active and returns ErrOtpNotFound otherwise, so concurrent
	// submissions of the same code cannot both claim it.
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	Issue(userID uuid.UUID, class TokenClass) (string, error)
	Verify(tokenStr string, class TokenClass) (uuid.UUID, error)
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(ctx context.Context, toEmail, code string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, code string) error
}

// Hasher defines the one-way credential hash used for passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}
