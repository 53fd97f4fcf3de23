package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrDuplicateEnrollment = New("DUPLICATE_ENROLLMENT", http.StatusConflict, "student already enrolled in course for semester")
	ErrInvalidScore        = New("INVALID_SCORE", http.StatusBadRequest, "percentage score must be between 0.0 and 100.0")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrPreconditionFailed  = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrConflict            = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// CreditLimitError reports an enrollment attempt that would push a student
// past the per-semester credit cap. It carries the credit figures involved
// so callers can surface them as diagnostics.
type CreditLimitError struct {
	StudentID string `json:"student_id"`
	Current   int    `json:"current_credits"`
	Max       int    `json:"max_credits"`
	Attempted int    `json:"attempted_credits"`
}

// Error implements the error interface.
func (e *CreditLimitError) Error() string {
	return fmt.Sprintf("credit limit exceeded for student %s: current %d + attempted %d > max %d",
		e.StudentID, e.Current, e.Attempted, e.Max)
}

// NewCreditLimitExceeded wraps a CreditLimitError into the common Error shape.
func NewCreditLimitExceeded(studentID string, current, max, attempted int) *Error {
	inner := &CreditLimitError{StudentID: studentID, Current: current, Max: max, Attempted: attempted}
	return &Error{
		Code:    "MAX_CREDIT_LIMIT_EXCEEDED",
		Status:  http.StatusUnprocessableEntity,
		Message: inner.Error(),
		Err:     inner,
	}
}

// CreditLimitDetails extracts the credit figures from an error chain, if present.
func CreditLimitDetails(err error) (*CreditLimitError, bool) {
	var cle *CreditLimitError
	if errors.As(err, &cle) {
		return cle, true
	}
	return nil, false
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
