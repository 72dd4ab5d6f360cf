package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes follow the format LL-<AREA>-<NNNN>, where NNNN is the HTTP status
// followed by a discriminator digit (e.g. "LL-AUTH-4030" maps to 403).
type DomainError struct {
	Code    string // Error code (e.g., "LL-SESS-4040")
	Message string // Human-readable message, safe to show to clients
	Field   string // Input field the error is attributed to (optional)
	Details string // Optional additional details, never sent to clients
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus derives the transport status from the error code.
// Codes that do not carry a status map to 500.
func (e *DomainError) HTTPStatus() int {
	idx := strings.LastIndexByte(e.Code, '-')
	if idx < 0 || len(e.Code)-idx-1 != 4 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(e.Code[idx+1 : idx+4])
	if err != nil || n < 400 || n > 599 {
		return http.StatusInternalServerError
	}
	return n
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

func (e *DomainError) clone() *DomainError {
	c := *e
	return &c
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := e.clone()
	c.Details = details
	return c
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithField returns a copy of the error attributed to an input field.
func (e *DomainError) WithField(field string) *DomainError {
	c := e.clone()
	c.Field = field
	return c
}

// WithMessage returns a copy of the error with a different client message.
func (e *DomainError) WithMessage(message string) *DomainError {
	c := e.clone()
	c.Message = message
	return c
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// AsDomainError returns the DomainError in err's chain. Errors that are not
// domain errors are wrapped into ErrInternal so the caller always gets a
// value that is safe to render.
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return ErrInternal.WithCause(err)
}

// ============================================================================
// Request Errors (REQ, VAL)
// ============================================================================

var (
	// ErrValidation indicates one or more input fields failed validation.
	ErrValidation = NewDomainError("LL-VAL-4000", "invalid input")

	// ErrMalformedBody indicates the request body is not valid JSON for the route.
	ErrMalformedBody = NewDomainError("LL-REQ-4000", "Request body is not valid JSON.")

	// ErrMalformedPath indicates a path parameter could not be parsed.
	ErrMalformedPath = NewDomainError("LL-REQ-4001", "Invalid path parameter.")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAuthMissing indicates the Authorization header is absent.
	ErrAuthMissing = NewDomainError("LL-AUTH-4001", "Authorization header is missing.")

	// ErrAuthMalformed indicates the Authorization header is not "Bearer <token>".
	ErrAuthMalformed = NewDomainError("LL-AUTH-4002", "Authorization header is malformed, expected 'Bearer <token>'.")

	// ErrInvalidCredentials indicates the username or password is wrong.
	ErrInvalidCredentials = NewDomainError("LL-AUTH-4010", "Invalid username or password.")

	// ErrNoValidSession indicates the token is unknown or expired.
	ErrNoValidSession = NewDomainError("LL-AUTH-4030", "No valid sessions found.")

	// ErrSessionExpired indicates the token expired between lookup and use.
	ErrSessionExpired = NewDomainError("LL-AUTH-4031", "Session has expired.")
)

// ============================================================================
// User Errors (USER)
// ============================================================================

var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = NewDomainError("LL-USER-4040", "User not found.")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = NewDomainError("LL-USER-4090", "Username is already taken.")
)

// ============================================================================
// Workout Errors (EXER, SESS, INST, SET, CMNT)
// ============================================================================

var (
	// ErrExerciseNotFound indicates the exercise does not exist for the caller.
	ErrExerciseNotFound = NewDomainError("LL-EXER-4040", "Exercise not found.")

	// ErrExerciseInUse indicates the exercise is referenced by an exercise instance.
	ErrExerciseInUse = NewDomainError("LL-EXER-4090", "Exercise is used by at least one exercise instance.")

	// ErrSessionNotFound indicates the workout session does not exist for the caller.
	ErrSessionNotFound = NewDomainError("LL-SESS-4040", "Session not found.")

	// ErrInstanceNotFound indicates the exercise instance does not exist for the caller.
	ErrInstanceNotFound = NewDomainError("LL-INST-4040", "Exercise instance not found.")

	// ErrSetNotFound indicates the set does not exist for the caller.
	ErrSetNotFound = NewDomainError("LL-SET-4040", "Set not found.")

	// ErrCommentNotFound indicates the comment index is out of range.
	ErrCommentNotFound = NewDomainError("LL-CMNT-4040", "Comment not found.")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("LL-SYS-5000", "Internal server error.")

	// ErrDatabase indicates a store failure. The cause is logged, never returned.
	ErrDatabase = NewDomainError("LL-SYS-5001", "Unspecified database error occurred.")

	// ErrPasswordHash indicates password hashing failed.
	ErrPasswordHash = NewDomainError("LL-SYS-5002", "Password hash operation failed. More information in the server logs.")

	// ErrRouteNotFound indicates no route matched the request.
	ErrRouteNotFound = NewDomainError("LL-SYS-4040", "Route not found.")

	// ErrRateLimited indicates too many requests from the client.
	ErrRateLimited = NewDomainError("LL-SYS-4290", "Too many requests.")
)
