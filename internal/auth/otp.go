package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// OtpType scopes a one-time code to the flow that may consume it.
type OtpType string

const (
	OtpTypeEmailVerification OtpType = "EMAIL_VERIFICATION"
	OtpTypePasswordReset     OtpType = "PASSWORD_RESET"
)

const (
	verificationCodeTTL = 24 * time.Hour
	passwordResetTTL    = 1 * time.Hour
)

// Otp is a one-time code bound to a user and a purpose. InvalidatedAt is nil
// while the code is still consumable.
type Otp struct {
	ID            uuid.UUID
	Code          string
	Type          OtpType
	UserID        uuid.UUID
	ExpiresAt     time.Time
	InvalidatedAt *time.Time
	CreatedAt     time.Time
}

// generateVerificationCode returns a 6-digit numeric code in [100000, 999999].
// Codes are not unique across users; the owning-user scope disambiguates.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateResetCode returns a high-entropy opaque reset code.
func generateResetCode() string {
	return uuid.NewString()
}
