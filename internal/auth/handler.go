package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/go-auth-service/internal/apperror"
	"github.com/redmonkez12/go-auth-service/internal/httputil"
	"github.com/redmonkez12/go-auth-service/internal/logging"
	"github.com/redmonkez12/go-auth-service/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service         *Service
	logger          *logging.Logger
	isProduction    bool
	refreshDuration time.Duration
}

func NewHandler(service *Service, logger *logging.Logger, isProduction bool, refreshDuration time.Duration) *Handler {
	return &Handler{
		service:         service,
		logger:          logger,
		isProduction:    isProduction,
		refreshDuration: refreshDuration,
	}
}

// SignUpRequest represents the registration request body
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest represents the email verification request
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password; the reset code travels in
// the URL path.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Verified bool      `json:"verified"`
}

// SignUpResponse represents the registration response
type SignUpResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SessionResponse represents a response that signs the user in
type SessionResponse struct {
	Message     string       `json:"message"`
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// MessageResponse represents a plain confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

func publicUser(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Verified: u.Verified,
	}
}

// SignUp handles user registration
// @Summary      Register a new user
// @Description  Create a new account with name, email and password. A verification code is sent by email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Registration data"
// @Success      201 {object} SignUpResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/sign-up [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sign-up request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	newUser, err := h.service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, "sign-up failed", err)
		return
	}

	httputil.RespondJSON(w, SignUpResponse{
		Message: "user created successfully",
		User:    publicUser(newUser),
	}, http.StatusCreated)
}

// SignIn handles user sign-in
// @Summary      Sign in
// @Description  Authenticate with email and password. Returns an access token and sets the refresh token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200 {object} SessionResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      403 {object} httputil.ErrorResponse "Email not verified"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/sign-in [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sign-in request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, "sign-in failed", err)
		return
	}

	SetRefreshTokenCookie(w, result.RefreshToken, h.isProduction, h.refreshDuration)

	httputil.RespondJSON(w, SessionResponse{
		Message:     "signed in successfully",
		User:        publicUser(result.User),
		AccessToken: result.AccessToken,
	}, http.StatusOK)
}

// VerifyEmail handles email verification
// @Summary      Verify email address
// @Description  Consume the emailed verification code, mark the account verified and sign the user in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyEmailRequest true "Verification code"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid, expired, or already used code"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/verify-email [post]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify-email request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.VerifyEmail(r.Context(), strings.TrimSpace(req.Code))
	if err != nil {
		h.respondError(w, r, "email verification failed", err)
		return
	}

	SetRefreshTokenCookie(w, result.RefreshToken, h.isProduction, h.refreshDuration)

	httputil.RespondJSON(w, SessionResponse{
		Message:     "email verified successfully",
		User:        publicUser(result.User),
		AccessToken: result.AccessToken,
	}, http.StatusOK)
}

// RefreshToken handles access token renewal
// @Summary      Refresh access token
// @Description  Exchange the refresh token cookie for a new access token. The refresh token is not rotated.
// @Tags         auth
// @Produce      json
// @Success      200 {object} SessionResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing, invalid or expired refresh token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/refresh-token [post]
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := RefreshTokenFromCookie(r)

	result, err := h.service.RefreshToken(r.Context(), strings.TrimSpace(refreshToken))
	if err != nil {
		h.respondError(w, r, "token refresh failed", err)
		return
	}

	httputil.RespondJSON(w, SessionResponse{
		Message:     "token refreshed successfully",
		User:        publicUser(result.User),
		AccessToken: result.AccessToken,
	}, http.StatusOK)
}

// SignOut handles user sign-out
// @Summary      Sign out
// @Description  Clear the refresh token cookie. Previously issued access tokens stay valid until they expire.
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /auth/sign-out [post]
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ClearRefreshTokenCookie(w, h.isProduction)

	logger.Info("user signed out")

	httputil.RespondJSON(w, MessageResponse{Message: "signed out successfully"}, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request password reset
// @Description  Email a password reset link to the user. Only one reset request may be in flight at a time.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Email not found"
// @Failure      409 {object} httputil.ErrorResponse "Reset already in progress"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot-password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondError(w, r, "forgot-password failed", err)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "password reset request sent successfully"}, http.StatusOK)
}

// ResetPassword handles password reset with the emailed code
// @Summary      Reset password
// @Description  Set a new password using the reset code from the emailed link.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token path string true "Reset code"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid, expired, or already used code"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/reset-password/{token} [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset-password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		h.respondError(w, r, "password reset failed", err)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Message: "password reset successfully"}, http.StatusOK)
}

// Me returns the authenticated user
// @Summary      Current user
// @Description  Return the user resolved from the bearer access token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	resolved, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, map[string]UserResponse{"user": publicUser(resolved)}, http.StatusOK)
}

// respondError logs a flow error with severity matching its kind and writes
// the mapped HTTP response.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	if apperror.KindOf(err) == apperror.Internal {
		logger.Error(msg, "error", err.Error())
	} else {
		logger.Warn(msg, "error", err.Error())
	}

	httputil.RespondAppError(w, err)
}
