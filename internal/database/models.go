package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model for the users table. Emails are unique at
// the storage level; password_hash never holds a raw credential.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Verified     bool      `bun:"verified,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Otp is the persistence model for one-time codes. Rows are never deleted;
// InvalidatedAt marks a code as used and doubles as an audit trail.
type Otp struct {
	bun.BaseModel `bun:"table:otps,alias:o"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Code          string     `bun:"code,notnull"`
	Type          string     `bun:"type,notnull"`
	UserID        uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull"`
	InvalidatedAt *time.Time `bun:"invalidated_at"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
