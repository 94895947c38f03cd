package service

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionInvalid = errors.New("session expired or logged out")
)

// ValidationError is a rejected user input. Nothing has been persisted when
// one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
