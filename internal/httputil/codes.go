package httputil

// Machine-readable error codes used by middleware and handlers that respond
// before a flow-level error exists.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeMissingAuth        = "missing_authentication"
	CodeInvalidAuthHeader  = "invalid_authorization_header"
	CodeTokenExpired       = "token_expired"
	CodeInvalidToken       = "invalid_token"
	CodeInternalError      = "internal_error"
)
