package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes shared by the complaint core and the HTTP layer.
const (
	CodeValidation             = "VALIDATION_FAILED"
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeForbidden              = "FORBIDDEN"
	CodeConflict               = "CONFLICT"
	CodeInternal               = "INTERNAL_ERROR"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeDepartmentMismatch     = "DEPARTMENT_MISMATCH"
	CodeIneligibleOfficer      = "INELIGIBLE_OFFICER"
	CodeAlreadyAssigned        = "ALREADY_ASSIGNED"
	CodeWindowExpired          = "WINDOW_EXPIRED"
	CodeReasonRequired         = "REASON_REQUIRED"
	CodeAlreadyRated           = "ALREADY_RATED"
	CodeInvalidRating          = "INVALID_RATING"
	CodeFeedbackNotAllowed     = "FEEDBACK_NOT_ALLOWED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// Sentinels for errors.Is checks. Matching is by Code, so a sentinel matches
// any DomainError carrying the same code regardless of message or details.
var (
	ErrInvalidTransition      = NewDomainError(CodeInvalidTransition, "invalid status transition", http.StatusUnprocessableEntity, nil)
	ErrUnauthorizedTransition = NewDomainError(CodeUnauthorized, "actor role not permitted for this change", http.StatusForbidden, nil)
	ErrDepartmentMismatch     = NewDomainError(CodeDepartmentMismatch, "officer belongs to a different department", http.StatusUnprocessableEntity, nil)
	ErrIneligibleOfficer      = NewDomainError(CodeIneligibleOfficer, "officer role cannot take complaints", http.StatusUnprocessableEntity, nil)
	ErrAlreadyAssigned        = NewDomainError(CodeAlreadyAssigned, "complaint already assigned to another officer", http.StatusConflict, nil)
	ErrWindowExpired          = NewDomainError(CodeWindowExpired, "reopen window expired", http.StatusUnprocessableEntity, nil)
	ErrReasonRequired         = NewDomainError(CodeReasonRequired, "reason required", http.StatusBadRequest, nil)
	ErrAlreadyRated           = NewDomainError(CodeAlreadyRated, "feedback already submitted", http.StatusConflict, nil)
	ErrInvalidRating          = NewDomainError(CodeInvalidRating, "rating must be 1..5 with a comment", http.StatusBadRequest, nil)
	ErrFeedbackNotAllowed     = NewDomainError(CodeFeedbackNotAllowed, "feedback not accepted in current status", http.StatusUnprocessableEntity, nil)
	ErrConcurrentModification = &DomainError{
		Code:       CodeConcurrentModification,
		Message:    "complaint was modified concurrently; re-read and retry",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
	}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Retryable  bool
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// With returns a copy of e carrying details, keeping code and status.
func (e *DomainError) With(details map[string]any) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsRetryable reports whether the caller may re-read and retry the operation.
func IsRetryable(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Retryable
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
