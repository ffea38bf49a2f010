package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDenied covers both a missing project and an unauthorized
	// caller; the two are deliberately indistinguishable so that
	// probing ids cannot reveal which projects exist.
	ErrDenied = errors.New("access denied")

	ErrNotFound = errors.New("record not found")
)

// ValidationError reports a missing or malformed field. It is always
// recoverable and reported to the caller; foreign-key violations from
// the database are surfaced through this type as well.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
