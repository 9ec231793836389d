package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-auth-service/internal/apperror"
)

func TestRespondAppError(t *testing.T) {
	t.Run("maps kind to status and keeps code and fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := apperror.New(apperror.BadRequest, "validation_failed", "invalid sign-up data").
			WithField("email", "required")

		RespondAppError(rec, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "invalid sign-up data", resp.Error)
		assert.Equal(t, "validation_failed", resp.Code)
		assert.Equal(t, "required", resp.Fields["email"])
	})

	t.Run("internal failures never leak their cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondAppError(rec, apperror.Wrap(errors.New("pq: connection refused"), "failed to create user"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "internal server error", resp.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondAppError(rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStatusFromKind(t *testing.T) {
	for kind, want := range map[apperror.Kind]int{
		apperror.BadRequest:   http.StatusBadRequest,
		apperror.Unauthorized: http.StatusUnauthorized,
		apperror.Forbidden:    http.StatusForbidden,
		apperror.NotFound:     http.StatusNotFound,
		apperror.Conflict:     http.StatusConflict,
		apperror.Internal:     http.StatusInternalServerError,
	} {
		assert.Equal(t, want, StatusFromKind(kind))
	}
}
