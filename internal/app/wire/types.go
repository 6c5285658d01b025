/*
Package wire defines the raw records exchanged with the remote collection
store and the pure transformers between those records and the canonical
entities in the model package.

The store encodes every numeric field as a string and flattens the single
speaker of an event into four top-level fields. Transformation is total:
malformed numerics normalize to zero, out-of-range spot counts are clamped,
and the canonical-to-wire direction omits absent fields rather than nulling
them.
*/
package wire

// Event is the raw event record as stored remotely. Price, capacity, and
// availableSpots arrive string-encoded; date and time are full ISO timestamps.
type Event struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	Price          string `json:"price"`
	Image          string `json:"image"`
	Capacity       string `json:"capacity"`
	AvailableSpots string `json:"availableSpots"`

	// The store keeps a single flattened speaker per event. The field name
	// speakersName (plural) is historical and preserved for compatibility.
	SpeakersName  string `json:"speakersName"`
	SpeakerTitle  string `json:"speakerTitle"`
	SpeakerBio    string `json:"speakerBio"`
	SpeakerAvatar string `json:"speakerAvatar"`

	CreatedAt string `json:"createdAt"`
}

// User is the raw user record as stored remotely.
type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Avatar   string `json:"avatar,omitempty"`

	// RegisteredEventIDs is always emitted: null leaves the remote mirror
	// untouched, [] clears it. Dropping the field on an empty list would make
	// the last removal invisible to the store.
	RegisteredEventIDs []string `json:"registeredEventIds"`

	CreatedAt string `json:"createdAt,omitempty"`
}

// Registration is the raw registration record as stored remotely. The store
// denormalizes the registrant's name and email onto the record.
type Registration struct {
	ID           string `json:"id,omitempty"`
	UserID       string `json:"userId,omitempty"`
	EventID      string `json:"eventId,omitempty"`
	UserName     string `json:"userName,omitempty"`
	UserEmail    string `json:"userEmail,omitempty"`
	RegisteredAt string `json:"registeredAt,omitempty"`
	Status       string `json:"status,omitempty"`
}

// EventPage is the paginated event listing envelope returned by the store.
type EventPage struct {
	Data  []Event `json:"data"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
