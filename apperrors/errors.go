// Package apperrors carries the programmer-error taxonomy for winnow:
// duplicate question ids, empty banks, and malformed stopping
// compositions are signalled eagerly, not propagated as ordinary
// oracle failures.
package apperrors

import (
	"fmt"
)

// Error codes for the programmer-error class described in spec.md §7.
const (
	CodeDuplicateQuestionID = "duplicate_question_id"
	CodeEmptyQuestionID     = "empty_question_id"
	CodeEmptyBank           = "empty_bank"
	CodeMalformedStopping   = "malformed_stopping_composition"
	CodeInternal            = "internal_error"
)

// AppError carries a stable code and message. It represents a programmer
// error, or, with CodeInternal, a wrapped ordinary error such as an
// oracle failure (see HandleError). Err, when set, is the underlying cause HandleError was given; it is
// exposed through Unwrap so callers can still errors.Is/As against it.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an AppError with the given code.
func New(message string, code string) *AppError {
	return &AppError{Code: code, Message: message}
}

// HandleError wraps a standard error (typically an oracle transport
// failure, spec.md §7) into an AppError, preserving an existing
// AppError's code instead of overwriting it, and keeping err reachable
// through Unwrap so callers can still errors.Is against the original
// cause.
func HandleError(err error, defaultMessage string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	message := defaultMessage
	if message == "" {
		message = err.Error()
	}
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// Join combines multiple errors into a single AppError, keeping the
// code of the last AppError encountered.
func Join(errs ...error) *AppError {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	code := CodeInternal
	for _, err := range errs {
		if err == nil {
			continue
		}
		if appErr, ok := err.(*AppError); ok {
			messages = append(messages, appErr.Message)
			code = appErr.Code
		} else {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf("multiple errors occurred: %v", messages),
	}
}
