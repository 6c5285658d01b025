/*
Package model contains the canonical in-memory entities of the EventBook
client: users, events, speakers, and registrations.

These are the normalized shapes the rest of the client works with. The raw
wire representations used by the remote collection store (string-encoded
numerics, flattened speaker fields) live in the wire package together with the
transformers between the two.
*/
package model

// User represents an account in the local user store.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// Password is stored and compared in plaintext. This mirrors the
	// development-mode authentication simulation of the backing store and is
	// not suitable for production use.
	Password string `json:"password"`

	Avatar string `json:"avatar,omitempty"`

	// RegisteredEventIDs mirrors the user's registrations as a list of event
	// ids. Set semantics are intended: duplicates are suppressed on every
	// mutation. It is a projection of the registrations resource, never a
	// second source of truth.
	RegisteredEventIDs []string `json:"registeredEventIds,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// Speaker is a value object nested in an event; it has no independent lifecycle.
type Speaker struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar,omitempty"`
}

// Event represents a discoverable event. From the client's perspective it is
// immutable except for the optimistic AvailableSpots adjustment applied around
// registration mutations; the authoritative value always comes from the next
// fetch.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Date is the calendar day in YYYY-MM-DD form.
	Date string `json:"date"`

	// Time is the start time in HH:MM form.
	Time string `json:"time"`

	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`

	Capacity int `json:"capacity"`

	// AvailableSpots is always within [0, Capacity]; the wire transformer
	// clamps values the upstream store reports out of range.
	AvailableSpots int `json:"availableSpots"`

	Speakers  []Speaker `json:"speakers"`
	CreatedAt string    `json:"createdAt"`
}

// RegistrationStatus enumerates the lifecycle states of a registration.
type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

// Registration links a user to an event. The dedicated registrations resource
// is the canonical persistence strategy; entries derived from a user's
// mirrored RegisteredEventIDs list carry a synthesized id.
type Registration struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	EventID      string             `json:"eventId"`
	RegisteredAt string             `json:"registeredAt"`
	Status       RegistrationStatus `json:"status"`
}

// EventPage is one page of the paginated event listing.
type EventPage struct {
	Data  []Event `json:"data"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
