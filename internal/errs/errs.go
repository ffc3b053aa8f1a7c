// Package errs holds the error taxonomy shared by the store, services and the
// HTTP layer. Handlers never pick status codes themselves; they return these
// errors and the API error handler maps them.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both absent records and records owned by another caller.
	ErrNotFound = errors.New("not found")

	// ErrParentNotFound is returned when a child record references a patient
	// the caller does not own. It matches ErrNotFound under errors.Is.
	ErrParentNotFound error = &NotFoundError{Kind: "Patient"}

	// ErrUnavailable indicates a dependency (store, prediction service) cannot be reached.
	ErrUnavailable = errors.New("service unavailable")

	// ErrUpstreamTimeout and ErrUpstreamUnreachable distinguish the two ways the
	// prediction service can be unavailable.
	ErrUpstreamTimeout     = fmt.Errorf("upstream timed out: %w", ErrUnavailable)
	ErrUpstreamUnreachable = fmt.Errorf("upstream unreachable: %w", ErrUnavailable)

	// ErrUnauthenticated means no caller identity was attached to the request.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// NotFoundError labels a not-found outcome with the resource kind so the API
// can answer "Assessment not found" without revealing why.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return strings.ToLower(e.Kind) + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a labelled ErrNotFound.
func NotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure.
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Required records a missing required field.
func (e *ValidationError) Required(field string) {
	e.Add(field, "is required")
}

// Has reports whether the given field already failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when nothing failed so validators can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field validation error.
func Invalid(field, format string, args ...interface{}) error {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// IsNotFound reports whether err is (or wraps) a not-found outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UpstreamError is a non-2xx answer relayed from the prediction service.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// RequestError rejects a request as a whole rather than one of its fields.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// BadRequest builds a RequestError.
func BadRequest(message string) error {
	return &RequestError{Message: message}
}
