package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/redmonkez12/go-auth-service/internal/apperror"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondError sends a JSON error response with the given message and status code.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondAppError maps an application error to its HTTP status. Internal
// failures keep a generic message so causes never leak to clients.
func RespondAppError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)

	if appErr.Kind == apperror.Internal {
		RespondErrorWithCode(w, "internal server error", appErr.Code, http.StatusInternalServerError)
		return
	}

	RespondJSON(w, ErrorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Fields: appErr.Fields,
	}, StatusFromKind(appErr.Kind))
}

// StatusFromKind maps an error kind to its HTTP status code.
func StatusFromKind(kind apperror.Kind) int {
	switch kind {
	case apperror.BadRequest:
		return http.StatusBadRequest
	case apperror.Unauthorized:
		return http.StatusUnauthorized
	case apperror.Forbidden:
		return http.StatusForbidden
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
