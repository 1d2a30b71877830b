package service

import (
	"database/sql"
	"errors"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("tour package not found")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("caller is not allowed to modify this tour package")
)

// ValidationError reports malformed or out-of-bounds input. It maps to a
// 400 at the HTTP boundary and never reaches the upload orchestration.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// validationf is a tiny helper for the common construction.
func validationErr(reason string) error { return &ValidationError{Reason: reason} }

// UploadError marks a failed upload orchestration after compensation has
// already run. The wrapped error is the triggering subtask failure; cleanup
// failures are logged, never carried here.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "failed to upload images: " + e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }

// isNoRows translates the repository's missing-row signal.
func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
