package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-auth-service/internal/user"
)

// fakeUserStore is an in-memory UserStore. The email uniqueness check in
// Create mirrors the database constraint.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u

	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	u.Verified = verified
	u.UpdatedAt = time.Now()

	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (s *fakeUserStore) delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// fakeOtpStore is an in-memory OtpStore with the same validity and
// conditional-invalidation semantics as the SQL repository.
type fakeOtpStore struct {
	mu   sync.Mutex
	otps map[uuid.UUID]*Otp
}

func newFakeOtpStore() *fakeOtpStore {
	return &fakeOtpStore{otps: make(map[uuid.UUID]*Otp)}
}

func (s *fakeOtpStore) Create(ctx context.Context, code string, otpType OtpType, userID uuid.UUID, expiresAt time.Time) (*Otp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &Otp{
		ID:        uuid.New(),
		Code:      code,
		Type:      otpType,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	s.otps[o.ID] = o

	clone := *o
	return &clone, nil
}

func (s *fakeOtpStore) FindValid(ctx context.Context, code string, otpType OtpType) (*Otp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.otps {
		if o.Code == code && o.Type == otpType && o.InvalidatedAt == nil && !o.ExpiresAt.Before(time.Now()) {
			clone := *o
			return &clone, nil
		}
	}
	return nil, ErrOtpNotFound
}

func (s *fakeOtpStore) FindValidByUser(ctx context.Context, userID uuid.UUID, otpType OtpType) (*Otp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.otps {
		if o.UserID == userID && o.Type == otpType && o.InvalidatedAt == nil && !o.ExpiresAt.Before(time.Now()) {
			clone := *o
			return &clone, nil
		}
	}
	return nil, ErrOtpNotFound
}

func (s *fakeOtpStore) Invalidate(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.otps[id]
	if !ok || o.InvalidatedAt != nil {
		return ErrOtpNotFound
	}
	now := time.Now()
	o.InvalidatedAt = &now
	return nil
}

// latestCode returns the most recently created code for a user and type.
func (s *fakeOtpStore) latestCode(userID uuid.UUID, otpType OtpType) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *Otp
	for _, o := range s.otps {
		if o.UserID != userID || o.Type != otpType {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Code
}

// expire rewinds the expiry of every code for a user and type.
func (s *fakeOtpStore) expire(userID uuid.UUID, otpType OtpType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.otps {
		if o.UserID == userID && o.Type == otpType {
			o.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}

// fakeEmailSender records sent emails and can be told to fail.
type fakeEmailSender struct {
	mu                sync.Mutex
	failWith          error
	verificationCodes map[string]string // email -> code
	resetCodes        map[string]string // email -> code
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{
		verificationCodes: make(map[string]string),
		resetCodes:        make(map[string]string),
	}
}

func (s *fakeEmailSender) SendVerificationEmail(ctx context.Context, toEmail, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	s.verificationCodes[toEmail] = code
	return nil
}

func (s *fakeEmailSender) SendPasswordResetEmail(ctx context.Context, toEmail, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	s.resetCodes[toEmail] = code
	return nil
}

var errSMTPDown = errors.New("smtp: connection refused")
