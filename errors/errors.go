// Package errors provides a constant, string based error type used for every
// sentinel error of the schema graph (syntax, resolution, path type) and thin
// wrappers over the standard errors package so callers only need one import.
package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrSeparator separates the message of an Error from the cause it wraps.
const ErrSeparator = " -- "

// Error allows the definition of const errors in packages.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target carries the same message, either verbatim or as the
// prefix of a wrapped error.
func (s Error) Is(target error) bool {
	return s.Error() == target.Error() || strings.HasPrefix(target.Error(), s.Error()+ErrSeparator)
}

// As sets target to s when target is an Error.
func (s Error) As(target interface{}) bool {
	v := reflect.ValueOf(target).Elem()
	if v.Type().Name() == "Error" && v.CanSet() {
		v.SetString(string(s))
		return true
	}
	return false
}

// Wrap returns an error with s as its message and err as its cause.
func (s Error) Wrap(err error) error {
	return wrappedError{cause: err, msg: string(s)}
}

// Wrapf is Wrap with a formatted cause.
func (s Error) Wrapf(format string, args ...any) error {
	return s.Wrap(fmt.Errorf(format, args...))
}

type wrappedError struct {
	cause error
	msg   string
}

func (w wrappedError) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s%s%v", w.msg, ErrSeparator, w.cause)
	}
	return w.msg
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) As(target interface{}) bool {
	return Error(w.msg).As(target)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// Is is errors.Is.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New.
func New(message string) error {
	return errors.New(message)
}

// Join is errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap is errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
