package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeUnauthenticated      ErrorCode = "UNAUTHENTICATED"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeInvalidState         ErrorCode = "INVALID_STATE"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeSelfApplication      ErrorCode = "SELF_APPLICATION"
	ErrCodeNotAnApplicant       ErrorCode = "NOT_AN_APPLICANT"
	ErrCodeAlreadyReviewed      ErrorCode = "ALREADY_REVIEWED"
	ErrCodeInvalidRating        ErrorCode = "INVALID_RATING"
	ErrCodeNoRecipient          ErrorCode = "NO_RECIPIENT"
	ErrCodeInvalid              ErrorCode = "INVALID"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUnauthenticated      = NewError(ErrCodeUnauthenticated, "not authenticated")
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrForbidden            = NewError(ErrCodeForbidden, "not authorized")
	ErrInvalidState         = NewError(ErrCodeInvalidState, "operation not allowed in current task status")
	ErrDuplicateApplication = NewError(ErrCodeDuplicateApplication, "already applied")
	ErrSelfApplication      = NewError(ErrCodeSelfApplication, "cannot apply to your own task")
	ErrNotAnApplicant       = NewError(ErrCodeNotAnApplicant, "helper has not applied")
	ErrAlreadyReviewed      = NewError(ErrCodeAlreadyReviewed, "review already submitted for this task")
	ErrInvalidRating        = NewError(ErrCodeInvalidRating, "rating must be between 1 and 5")
	ErrNoRecipient          = NewError(ErrCodeNoRecipient, "no recipient found")
	ErrProfileExists        = NewError(ErrCodeConflict, "user profile already exists")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvalidCategory      = NewError(ErrCodeInvalid, "unknown task category")
	ErrInvalidRole          = NewError(ErrCodeInvalid, "unknown user type")
	ErrEmptyMessage         = NewError(ErrCodeInvalid, "message cannot be empty")
	ErrEmptyTitle           = NewError(ErrCodeInvalid, "title cannot be empty")
	ErrRewardOutOfRange     = NewError(ErrCodeInvalid, "reward points out of allowed range")
	ErrReviewTarget         = NewError(ErrCodeInvalid, "reviewee must be the other participant of the task")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
