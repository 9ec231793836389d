package auth

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/redmonkez12/go-auth-service/internal/apperror"
	"github.com/redmonkez12/go-auth-service/internal/logging"
	"github.com/redmonkez12/go-auth-service/internal/user"
)

const minPasswordLength = 8

// Service composes the auth flows out of the store, hasher, signer and email
// capabilities. Every invariant (email uniqueness, single in-flight reset,
// one-shot codes) is enforced against the durable stores at flow time; the
// service keeps no in-process state.
type Service struct {
	users  UserStore
	otps   OtpStore
	tokens TokenService
	hasher Hasher
	email  EmailService
	logger *logging.Logger
}

func NewService(
	users UserStore,
	otps OtpStore,
	tokens TokenService,
	hasher Hasher,
	email EmailService,
	logger *logging.Logger,
) *Service {
	return &Service{
		users:  users,
		otps:   otps,
		tokens: tokens,
		hasher: hasher,
		email:  email,
		logger: logger,
	}
}

// AuthResult is the outcome of a flow that authenticates a user.
// RefreshToken is empty for flows that do not issue one.
type AuthResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
}

// SignUp registers a new account, stores an email-verification code and
// dispatches the verification email. The email send is part of the flow: a
// send failure surfaces to the caller, and the created user and code are
// deliberately not rolled back — the user can retry verification later.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*user.User, error) {
	if err := validateSignUp(name, email, password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.Conflict, "email_already_exists", "email already in use")
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, apperror.Wrap(err, "failed to check email")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to hash password")
	}

	newUser, err := s.users.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperror.New(apperror.Conflict, "email_already_exists", "email already in use")
		}
		return nil, apperror.Wrap(err, "failed to create user")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, apperror.Wrap(err, "failed to generate verification code")
	}

	if _, err := s.otps.Create(ctx, code, OtpTypeEmailVerification, newUser.ID, time.Now().Add(verificationCodeTTL)); err != nil {
		return nil, apperror.Wrap(err, "failed to store verification code")
	}

	if err := s.email.SendVerificationEmail(ctx, newUser.Email, code); err != nil {
		s.logger.Warn("failed to send verification email", "email", newUser.Email, "error", err)
		return nil, apperror.Wrap(err, "failed to send verification email")
	}

	s.logger.Info("user signed up", "user_id", newUser.ID)

	return newUser, nil
}

// VerifyEmail consumes an email-verification code, marks the account as
// verified and signs the user in. The code is claimed atomically, so a
// repeated submission fails even when it races the first one.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*AuthResult, error) {
	if code == "" {
		return nil, apperror.New(apperror.BadRequest, "verification_code_required", "verification code is required").
			WithField("code", "required")
	}

	otp, err := s.otps.FindValid(ctx, code, OtpTypeEmailVerification)
	if err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return nil, apperror.New(apperror.BadRequest, "invalid_verification_code", "invalid or expired verification code")
		}
		return nil, apperror.Wrap(err, "failed to look up verification code")
	}

	owner, err := s.users.GetByID(ctx, otp.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.NotFound, "user_not_found", "user not found")
		}
		return nil, apperror.Wrap(err, "failed to load user")
	}

	// Claim the code before mutating the account. Only one of two concurrent
	// submissions gets past this point.
	if err := s.otps.Invalidate(ctx, otp.ID); err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return nil, apperror.New(apperror.BadRequest, "invalid_verification_code", "invalid or expired verification code")
		}
		return nil, apperror.Wrap(err, "failed to invalidate verification code")
	}

	verified, err := s.users.SetVerified(ctx, owner.ID, true)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to mark email as verified")
	}

	result, err := s.issueTokens(verified)
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", "user_id", verified.ID)

	return result, nil
}

// SignIn authenticates with email and password. Unknown email and wrong
// password collapse into one error so callers cannot probe which part failed.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.New(apperror.Unauthorized, "invalid_credentials", "invalid email or password")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.Unauthorized, "invalid_credentials", "invalid email or password")
		}
		return nil, apperror.Wrap(err, "failed to get user")
	}

	if !s.hasher.Verify(password, existing.PasswordHash) {
		return nil, apperror.New(apperror.Unauthorized, "invalid_credentials", "invalid email or password")
	}

	if !existing.Verified {
		return nil, apperror.New(apperror.Forbidden, "email_not_verified", "email not verified, please check your inbox")
	}

	result, err := s.issueTokens(existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", "user_id", existing.ID)

	return result, nil
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until its own expiry.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperror.New(apperror.Unauthorized, "refresh_token_required", "refresh token is missing")
	}

	userID, err := s.tokens.Verify(refreshToken, TokenClassRefresh)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, apperror.New(apperror.Unauthorized, "token_expired", "refresh token has expired")
		}
		return nil, apperror.New(apperror.Unauthorized, "invalid_token", "invalid refresh token")
	}

	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.NotFound, "user_not_found", "user not found")
		}
		return nil, apperror.Wrap(err, "failed to load user")
	}

	accessToken, err := s.tokens.Issue(existing.ID, TokenClassAccess)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to issue access token")
	}

	return &AuthResult{User: existing, AccessToken: accessToken}, nil
}

// ForgotPassword starts a password reset. Only one reset request may be in
// flight per user: a second call before the first code expires is rejected.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperror.New(apperror.BadRequest, "email_required", "email is required").
			WithField("email", "required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.New(apperror.NotFound, "email_not_found", "email not found")
		}
		return apperror.Wrap(err, "failed to get user")
	}

	if _, err := s.otps.FindValidByUser(ctx, existing.ID, OtpTypePasswordReset); err == nil {
		return apperror.New(apperror.Conflict, "reset_already_requested", "a password reset request is already in progress")
	} else if !errors.Is(err, ErrOtpNotFound) {
		return apperror.Wrap(err, "failed to check for pending reset")
	}

	code := generateResetCode()
	if _, err := s.otps.Create(ctx, code, OtpTypePasswordReset, existing.ID, time.Now().Add(passwordResetTTL)); err != nil {
		return apperror.Wrap(err, "failed to store reset code")
	}

	if err := s.email.SendPasswordResetEmail(ctx, existing.Email, code); err != nil {
		s.logger.Warn("failed to send password reset email", "email", existing.Email, "error", err)
		return apperror.Wrap(err, "failed to send password reset email")
	}

	s.logger.Info("password reset requested", "user_id", existing.ID)

	return nil
}

// ResetPassword consumes a reset code and overwrites the user's password.
// The code is claimed atomically before the password changes, so a second
// submission of the same code fails even with a different new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperror.New(apperror.BadRequest, "reset_token_required", "reset token is required").
			WithField("token", "required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	otp, err := s.otps.FindValid(ctx, token, OtpTypePasswordReset)
	if err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return apperror.New(apperror.BadRequest, "invalid_reset_token", "invalid or expired reset token")
		}
		return apperror.Wrap(err, "failed to look up reset token")
	}

	owner, err := s.users.GetByID(ctx, otp.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.New(apperror.NotFound, "user_not_found", "user not found")
		}
		return apperror.Wrap(err, "failed to load user")
	}

	if err := s.otps.Invalidate(ctx, otp.ID); err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return apperror.New(apperror.BadRequest, "invalid_reset_token", "invalid or expired reset token")
		}
		return apperror.Wrap(err, "failed to invalidate reset token")
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Wrap(err, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, owner.ID, passwordHash); err != nil {
		return apperror.Wrap(err, "failed to update password")
	}

	s.logger.Info("password reset completed", "user_id", owner.ID)

	return nil
}

// issueTokens creates the access/refresh pair for an authenticated user.
func (s *Service) issueTokens(u *user.User) (*AuthResult, error) {
	accessToken, err := s.tokens.Issue(u.ID, TokenClassAccess)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := s.tokens.Issue(u.ID, TokenClassRefresh)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to issue refresh token")
	}

	return &AuthResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func validateSignUp(name, email, password string) error {
	appErr := apperror.New(apperror.BadRequest, "validation_failed", "invalid sign-up data")

	if name == "" {
		appErr.WithField("name", "required")
	}
	if email == "" {
		appErr.WithField("email", "required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		appErr.WithField("email", "invalid format")
	}
	if password == "" {
		appErr.WithField("password", "required")
	} else if len(password) < minPasswordLength {
		appErr.WithField("password", "must be at least 8 characters")
	}

	if len(appErr.Fields) > 0 {
		return appErr
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return apperror.New(apperror.BadRequest, "password_required", "password is required").
			WithField("password", "required")
	}
	if len(password) < minPasswordLength {
		return apperror.New(apperror.BadRequest, "password_too_short", "password must be at least 8 characters").
			WithField("password", "must be at least 8 characters")
	}
	return nil
}
