/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error
interface and includes a business code, a user-friendly message, and the HTTP
status observed on the wire for gateway-raised errors.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"eventbook/internal/pkg/logx"
)

// CustomError is the custom error structure used throughout the client.
// It wraps the Go error interface, adding a business code and, for errors that
// originate from an HTTP response, the status code that was received.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status associated with this error. For gateway
	// errors it is the status received from the remote store; for local
	// errors it is zero.
	Status int
}

// Error implements the standard Go error interface. It returns a formatted
// error string containing the error code, HTTP status, and message.
func (e CustomError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("Error Code %d: %s", e.Code, e.Message)
}

// NewError constructs and returns a new *CustomError instance based on a predefined error code.
// The optional details parameter allows printf-style formatting arguments to be
// supplied for the error message. An unknown code falls back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(
				originalErr,
				"Handling ErrUnknown with underlying error",
			)
		}
	} else if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
			)
		}
	}

	return &customErr
}

// NewHTTPError constructs an ErrHTTP error carrying the received status code
// and, when the response body provided one, the server-sent message.
func NewHTTPError(status int, message string) *CustomError {
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d.", status)
	}

	return &CustomError{
		Code:    ErrHTTP,
		Message: message,
		Status:  status,
	}
}

// CodeOf returns the business code carried by err, or 0 when err is not a
// CustomError.
func CodeOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return 0
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// CustomError or carries none.
func StatusOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Status
	}
	return 0
}

// IsCode reports whether err is a CustomError with the given business code.
func IsCode(err error, code int) bool {
	return CodeOf(err) == code
}

// IsRetryable reports whether err represents a failure the gateway may retry.
// Only idempotent HTTP failures qualify: a 5xx status or 429 Too Many
// Requests. Other 4xx responses, timeouts, and network failures propagate
// immediately.
func IsRetryable(err error) bool {
	var customErr *CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	if customErr.Code != ErrHTTP {
		return false
	}
	return customErr.Status >= http.StatusInternalServerError ||
		customErr.Status == http.StatusTooManyRequests
}
