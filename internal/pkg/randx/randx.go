/*
Package randx provides functions for generating unique identifiers.

User and registration records created on the client are assigned UUID v4
identifiers before the write-through to the remote store, so that a record is
addressable even when remote persistence fails. Sequential count-based ids are
deliberately not used; they collide as soon as two devices sign up offline.
*/
package randx

import (
	"github.com/google/uuid"
)

// NewUserID generates a UUID v4 string to serve as a unique user identifier.
func NewUserID() string {
	return uuid.New().String()
}

// NewRegistrationID generates a UUID v4 string to serve as a unique
// registration identifier.
func NewRegistrationID() string {
	return uuid.New().String()
}

// NewEventID generates a UUID v4 string for event records created by the mock
// API server's seed data.
func NewEventID() string {
	return uuid.New().String()
}
