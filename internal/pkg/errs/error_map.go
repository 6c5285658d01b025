/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize error construction throughout the client.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every
// application error code. The key is the error code (int), and the value
// contains the user message and, where fixed, the HTTP status.
var errorMap = map[int]CustomError{
	// 1xxx: Remote Gateway / Transport Errors
	ErrNetwork: {Code: ErrNetwork, Message: "Network error. Please check your connection."},
	ErrTimeout: {Code: ErrTimeout, Message: "The request timed out. Please try again.", Status: http.StatusRequestTimeout},
	ErrHTTP:    {Code: ErrHTTP, Message: "Request failed."},
	ErrDecode:  {Code: ErrDecode, Message: "Received an unexpected response from the server."},

	// 2xxx: Event and Registration Business Logic Errors
	ErrNotFound:  {Code: ErrNotFound, Message: "Not found."},
	ErrEventFull: {Code: ErrEventFull, Message: "This event is sold out."},

	// 3xxx: User and Session Errors
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrAlreadyExists:      {Code: ErrAlreadyExists, Message: "An account with this email already exists."},
	ErrUnauthenticated:    {Code: ErrUnauthenticated, Message: "Please sign in to continue."},
	ErrInvalidToken:       {Code: ErrInvalidToken, Message: "Your session has expired. Please sign in again."},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again."},
}
