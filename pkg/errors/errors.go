package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile             = errors.New("no file uploaded")
	ErrInvalidFileFormat  = errors.New("invalid file format")
	ErrEmptySheet         = errors.New("spreadsheet has no sheets")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrMissingSchool      = errors.New("user is not assigned to a school")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownImportKind  = errors.New("unknown import kind")
)

// RowError is a failure scoped to one spreadsheet row. It never aborts the batch.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

func NewRowError(row int, format string, args ...interface{}) error {
	return RowError{Row: row, Message: fmt.Sprintf(format, args...)}
}

// IsRowError reports whether err is (or wraps) a RowError.
func IsRowError(err error) bool {
	var re RowError
	return errors.As(err, &re)
}

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
