package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies failures for logs and status mapping.
type ErrorCode string

const (
	ErrorAuthFailure          ErrorCode = "AUTH_FAILURE"
	ErrorMissingParameter     ErrorCode = "MISSING_PARAMETER"
	ErrorVendorUnavailable    ErrorCode = "VENDOR_UNAVAILABLE"
	ErrorUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
	ErrorPersistenceFailure   ErrorCode = "PERSISTENCE_FAILURE"
	ErrorInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrorInternal             ErrorCode = "INTERNAL_ERROR"
)

// Error separates the internal failure kind (Code, Reason, Err) from the text
// shown to the end user (Message).
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds an Error. An empty message falls back to the default apology for the code.
func NewError(code ErrorCode, reason, message string, err error) *Error {
	return &Error{Code: code, Reason: reason, Message: message, Err: err}
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

func missingParameter(names ...string) *Error {
	return &Error{
		Code:    ErrorMissingParameter,
		Reason:  "missing_" + strings.Join(names, "_"),
		Message: fmt.Sprintf(MsgMissingParameter, strings.Join(names, "、")),
	}
}

func vendorUnavailable(reason string, err error) *Error {
	return &Error{Code: ErrorVendorUnavailable, Reason: reason, Err: err}
}

// Unsupported reports an action discriminator that no handler is registered for.
func Unsupported(name string) *Error {
	return &Error{
		Code:    ErrorUnsupportedOperation,
		Reason:  "unknown_action",
		Message: fmt.Sprintf(MsgUnsupportedOperation, name),
	}
}

// CodeOf returns the error kind, or ErrorInternal for untyped errors.
func CodeOf(err error) ErrorCode {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Code
	}
	return ErrorInternal
}

// Apology returns the user-facing text for err. It never exposes err.Error().
func Apology(err error) string {
	var ue *Error
	if !errors.As(err, &ue) {
		return MsgInternal
	}
	if ue.Message != "" {
		return ue.Message
	}
	switch ue.Code {
	case ErrorAuthFailure:
		return MsgAuthFailure
	case ErrorMissingParameter:
		return MsgMissingParameterGeneric
	case ErrorVendorUnavailable:
		return MsgVendorUnavailable
	case ErrorUnsupportedOperation:
		return MsgUnsupportedGeneric
	case ErrorPersistenceFailure:
		return MsgPersistenceFailure
	case ErrorInvalidInput:
		return MsgInvalidInput
	default:
		return MsgInternal
	}
}
