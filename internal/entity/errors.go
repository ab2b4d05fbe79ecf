package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced sweet or order that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable marks writes attempted without a database
	// connection. Reads degrade to empty results instead.
	ErrStorageUnavailable = errors.New("database not connected")
)

// ValidationError carries the human-readable reason returned to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalidf builds a ValidationError from a format string.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
