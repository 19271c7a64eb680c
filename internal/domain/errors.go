package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeOfferNotFound    ErrorCode = "OFFER_NOT_FOUND"
	CodeAlreadyCancelled ErrorCode = "ALREADY_CANCELLED"
	CodeUpstream         ErrorCode = "UPSTREAM"
	CodeConflict         ErrorCode = "CONFLICT"
)

// Error carries a stable code for callers plus a human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func E(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Upstreamf(format string, args ...any) *Error {
	return &Error{Code: CodeUpstream, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code from an error chain, or empty when the
// error did not originate here.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
