package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("token expired: %w", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("token invalid: %w", ErrUnauthorized)
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("already exists")
	ErrUpstream           = errors.New("upstream failure")

	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrUserExists       = fmt.Errorf("user %w", ErrConflict)
	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrMessageNotFound  = fmt.Errorf("contact message %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("image %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryExists   = fmt.Errorf("category %w", ErrConflict)
)

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload, not just the first.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

// RateLimitError is returned once an attempt budget is spent.
type RateLimitError struct {
	RetryAfter time.Time
}

func (e *RateLimitError) Error() string {
	return "too many attempts, retry after " + e.RetryAfter.UTC().Format(time.RFC3339)
}

// UploadCause identifies why an upload was refused.
type UploadCause string

const (
	UploadTooLarge        UploadCause = "FileTooLarge"
	UploadTooManyFiles    UploadCause = "TooManyFiles"
	UploadUnsupportedType UploadCause = "UnsupportedFileType"
	UploadNoFile          UploadCause = "NoFile"
)

// UploadError is a cause-specific upload rejection.
type UploadError struct {
	Cause    UploadCause
	Filename string
	Detail   string
}

func (e *UploadError) Error() string {
	if e.Filename == "" {
		return string(e.Cause) + ": " + e.Detail
	}
	return fmt.Sprintf("%s: %s (%s)", e.Cause, e.Detail, e.Filename)
}
