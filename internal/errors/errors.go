// Package errors re-exports the standard error helpers so the rest of the
// codebase has a single import for error handling.
package errors

import "errors"

// New returns an error with the given text.
func New(text string) error { return errors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target.
func As(err error, target any) bool { return errors.As(err, target) }

// Join wraps the given errors into a single error.
func Join(errs ...error) error { return errors.Join(errs...) }

// Unwrap returns the result of calling Unwrap on err, if any.
func Unwrap(err error) error { return errors.Unwrap(err) }
