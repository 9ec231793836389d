package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-auth-service/internal/database"
)

var ErrOtpNotFound = errors.New("otp not found")

// OtpRepository handles one-time code persistence. Codes are soft-invalidated
// by setting invalidated_at; rows are never deleted so the table keeps an
// audit trail of consumed codes.
type OtpRepository struct {
	db *bun.DB
}

func NewOtpRepository(db *bun.DB) *OtpRepository {
	return &OtpRepository{db: db}
}

// Create persists a new one-time code.
func (r *OtpRepository) Create(ctx context.Context, code string, otpType OtpType, userID uuid.UUID, expiresAt time.Time) (*Otp, error) {
	dbOtp := &database.Otp{
		Code:      code,
		Type:      string(otpType),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	_, err := r.db.NewInsert().
		Model(dbOtp).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create otp: %w", err)
	}

	return mapDBOtpToModel(dbOtp), nil
}

// FindValid retrieves an active, unexpired code by (code, type). Expired
// rows are simply filtered out; they are never cleaned up.
func (r *OtpRepository) FindValid(ctx context.Context, code string, otpType OtpType) (*Otp, error) {
	dbOtp := new(database.Otp)
	err := r.db.NewSelect().
		Model(dbOtp).
		Where("code = ?", code).
		Where("type = ?", string(otpType)).
		Where("invalidated_at IS NULL").
		Where("expires_at >= ?", time.Now()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOtpNotFound
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}

	return mapDBOtpToModel(dbOtp), nil
}

// FindValidByUser retrieves an active, unexpired code by (user, type).
func (r *OtpRepository) FindValidByUser(ctx context.Context, userID uuid.UUID, otpType OtpType) (*Otp, error) {
	dbOtp := new(database.Otp)
	err := r.db.NewSelect().
		Model(dbOtp).
		Where("user_id = ?", userID).
		Where("type = ?", string(otpType)).
		Where("invalidated_at IS NULL").
		Where("expires_at >= ?", time.Now()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOtpNotFound
		}
		return nil, fmt.Errorf("failed to find otp by user: %w", err)
	}

	return mapDBOtpToModel(dbOtp), nil
}

// Invalidate marks a code as consumed. The invalidated_at IS NULL guard makes
// this an atomic claim: of two concurrent submissions only one sees a row
// affected, the other gets ErrOtpNotFound.
func (r *OtpRepository) Invalidate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewUpdate().
		Model((*database.Otp)(nil)).
		Set("invalidated_at = NOW()").
		Where("id = ?", id).
		Where("invalidated_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to invalidate otp: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOtpNotFound
	}

	return nil
}

// mapDBOtpToModel converts database model to domain model
func mapDBOtpToModel(dbo *database.Otp) *Otp {
	return &Otp{
		ID:            dbo.ID,
		Code:          dbo.Code,
		Type:          OtpType(dbo.Type),
		UserID:        dbo.UserID,
		ExpiresAt:     dbo.ExpiresAt,
		InvalidatedAt: dbo.InvalidatedAt,
		CreatedAt:     dbo.CreatedAt,
	}
}
