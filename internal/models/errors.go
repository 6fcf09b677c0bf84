package models

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Invalid returns a validation error carrying a caller-facing message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message extracts the caller-facing text of a validation error, falling
// back to the given default.
func Message(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return fallback
}

// NotFound reports a missing record of the given kind, e.g. "log".
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Column widths of the relational schema, in characters.
const (
	MaxTitleLen      = 255
	MaxCategoryLen   = 100
	MaxRatingLen     = 50
	MaxStatusLen     = 100
	MaxCompletionLen = 100
	MaxAuthorLen     = 255
)

func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return Invalid(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}
