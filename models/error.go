package models

import "errors"

// Error codes returned to callers. Every domain failure maps to exactly one of
// these; anything else is wrapped into an operation-specific *_FAILED code so
// internals never leak to the caller.
const (
	CodeUnauthenticated         = "UNAUTHENTICATED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeChatroomNotFound        = "CHATROOM_NOT_FOUND"
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeConflict                = "CONFLICT"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidAction           = "INVALID_ACTION"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInvalidAuthHeaderFormat = "INVALID_AUTH_HEADER_FORMAT"
	CodeInvalidAuthScheme       = "INVALID_AUTH_SCHEME"
	CodeMissingToken            = "MISSING_TOKEN"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeTokenVerificationFailed = "TOKEN_VERIFICATION_FAILED"
	CodeInvalidTokenPayload     = "INVALID_TOKEN_PAYLOAD"
	CodeUserLookupFailed        = "USER_LOOKUP_FAILED"
	CodeSecretNotFound          = "SECRET_NOT_FOUND"
	CodeInvalidOrExpiredOTP     = "INVALID_OR_EXPIRED_OTP"
)

// Error is a domain error with a stable machine-readable code and a human
// message. Operations return these directly; the transport boundary maps the
// code onto the wire without inspecting concrete error types at runtime.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Extensions satisfies the graphql extended-error contract so the code travels
// alongside the message in GraphQL responses.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// NewError creates a typed domain error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapOperation returns err unchanged when it already carries a domain code,
// otherwise converts it into a generic operation-failed error. Callers pass
// the code for the failed operation, e.g. "CREATE_CHATROOM_FAILED".
func WrapOperation(opCode string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Code: opCode, Message: "operation failed"}
}

// CodeOf extracts the domain code from err, or empty string for untyped errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ErrorMessageResponse returns the error message response struct used by the
// REST handlers.
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// HealthCheckResponse is returned by the healthcheck endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
