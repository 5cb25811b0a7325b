package twofactor

import "net/http"

// Error is a service failure with an HTTP status hint and a stable
// machine-readable code. The HTTP layer maps these directly onto responses;
// the code strings are part of the API contract and must not change.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Sentinel errors exposed by the service. Compare with errors.Is; the values
// are package-level singletons so pointer identity works.
var (
	ErrUserNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    "user_not_found",
		Message: "user not found",
	}
	ErrMissingEmail = &Error{
		Status:  http.StatusBadRequest,
		Code:    "missing_email",
		Message: "user email is required for enrollment",
	}
	ErrAlreadyEnabled = &Error{
		Status:  http.StatusConflict,
		Code:    "already_enabled",
		Message: "two-factor authentication is already enabled",
	}
	ErrNotEnrolled = &Error{
		Status:  http.StatusBadRequest,
		Code:    "not_enabled",
		Message: "two-factor authentication is not enabled",
	}
	// ErrInvalidCode deliberately covers wrong primary codes, wrong recovery
	// codes, and malformed input so responses do not leak which check failed.
	ErrInvalidCode = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_code",
		Message: "invalid authentication or recovery code",
	}
	ErrReplayDetected = &Error{
		Status:  http.StatusConflict,
		Code:    "replay_detected",
		Message: "that code was already used, wait for the next one",
	}
)
