package domain

import "errors"

// Domain errors returned by repository implementations and use cases.
// Each carries a Kind so the HTTP boundary can map it to a stable status
// code without inspecting error strings.

// Kind classifies a domain error into one of the stable categories
// surfaced at the API boundary.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindJobAlreadyExists Kind = "job_already_exists"
	KindValidation       Kind = "validation_error"
	KindRepository       Kind = "repository_error"
	KindInternal         Kind = "internal_error"
)

// Error is a structured domain error carrying a stable kind, a human
// message, and optional machine-readable details (e.g. field errors).
type Error struct {
	Kind    Kind
	Message string
	Details any
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// KindOf returns the Kind of err if it is (or wraps) a *Error, and
// KindInternal otherwise.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func newError(kind Kind, message string, details any, cause error) *Error {
	return &Error{Kind: kind, Message: message, Details: details, err: cause}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return newError(KindNotFound, message, nil, nil)
}

// Conflict builds a KindConflict error.
func Conflict(message string) *Error {
	return newError(KindConflict, message, nil, nil)
}

// JobAlreadyExists builds a KindJobAlreadyExists error.
func JobAlreadyExists(message string) *Error {
	return newError(KindJobAlreadyExists, message, nil, nil)
}

// ValidationField describes one failed field constraint.
type ValidationField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Validation builds a KindValidation error with field-level details.
func Validation(message string, fields ...ValidationField) *Error {
	var details any
	if len(fields) > 0 {
		details = fields
	}
	return newError(KindValidation, message, details, nil)
}

// Repository wraps a storage-layer fault as a KindRepository error.
func Repository(message string, cause error) *Error {
	return newError(KindRepository, message, nil, cause)
}

// Internal wraps an unexpected fault as a KindInternal error.
func Internal(message string, cause error) *Error {
	return newError(KindInternal, message, nil, cause)
}

// Sentinel errors for errors.Is-style checks against absence, kept
// alongside the typed *Error so repository implementations can return
// the sentinel directly when no extra message is needed.
var (
	// ErrJobNotFound indicates no job exists with the requested id.
	ErrJobNotFound = errors.New("job not found")
)
