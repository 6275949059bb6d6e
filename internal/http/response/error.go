package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/taskflow/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error for requests that never
// reach domain validation (e.g. malformed JSON).
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "invalid_request", message, http.StatusBadRequest)
}

// ValidationError sends a 422 validation error with field details,
// using domain.KindValidation's own stable code.
func ValidationError(w http.ResponseWriter, message string, fields []ErrorField) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    string(domain.KindValidation),
			Message: message,
			Details: fields,
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, string(domain.KindNotFound), resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, string(domain.KindConflict), message, http.StatusConflict)
}

// InternalError sends a 500 Internal Server Error.
// Logs the error server-side with request context but returns a generic message to the client to prevent information disclosure.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	// Log the actual error server-side for debugging and observability
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}

	// Return generic message to client (no error details to prevent information disclosure)
	Error(w, string(domain.KindInternal), "an internal error occurred", http.StatusInternalServerError)
}

// RepositoryError sends a 500 Internal Server Error for a storage
// fault, keeping domain.KindRepository's own stable code distinct from
// KindInternal's catch-all rather than collapsing every 500 into one
// code.
func RepositoryError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "repository error", "error", err)
	}
	Error(w, string(domain.KindRepository), "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps a domain.Error's Kind to the corresponding HTTP
// response, using domain.Kind's own stable code strings rather than
// re-literalizing them. An error that is not (or does not wrap) a
// *domain.Error is treated as KindInternal, matching domain.KindOf's
// fallback.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)

	var de *domain.Error
	message := err.Error()
	var fields []ErrorField
	if errors.As(err, &de) {
		message = de.Message
		if vf, ok := de.Details.([]domain.ValidationField); ok {
			for _, f := range vf {
				fields = append(fields, ErrorField{Field: f.Field, Issue: f.Issue})
			}
		}
	}

	switch kind {
	case domain.KindValidation:
		ValidationError(w, message, fields)
	case domain.KindNotFound:
		Error(w, string(domain.KindNotFound), message, http.StatusNotFound)
	case domain.KindConflict:
		Conflict(w, message)
	case domain.KindJobAlreadyExists:
		Error(w, string(domain.KindJobAlreadyExists), message, http.StatusConflict)
	case domain.KindRepository:
		RepositoryError(w, r, err)
	default:
		InternalError(w, r, err)
	}
}
