/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific transport or business failures both inside
the client and in what is surfaced to the UI layer.
*/
package errs

// 1xxx: Remote Gateway / Transport Errors
const (
	// ErrNetwork indicates that no response was received from the remote store.
	ErrNetwork = 1101

	// ErrTimeout indicates that the request was cancelled after the configured deadline.
	ErrTimeout = 1102

	// ErrHTTP indicates that a response was received with a non-2xx status code.
	ErrHTTP = 1103

	// ErrDecode indicates that the response body was not valid structured data.
	ErrDecode = 1104
)

// 2xxx: Event and Registration Business Logic Errors
const (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = 2101

	// ErrEventFull indicates a registration attempt against an event with no available spots.
	ErrEventFull = 2102
)

// 3xxx: User and Session Errors
const (
	// ErrInvalidCredentials indicates that the supplied password does not match the stored one.
	ErrInvalidCredentials = 3101

	// ErrAlreadyExists indicates a signup attempt with an email that is already registered.
	ErrAlreadyExists = 3102

	// ErrUnauthenticated indicates that an operation requiring a session was called without one.
	ErrUnauthenticated = 3103

	// ErrInvalidToken indicates that a persisted session token failed to parse or verify.
	ErrInvalidToken = 3104
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
