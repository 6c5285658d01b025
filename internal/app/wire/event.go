package wire

import (
	"math"
	"strconv"
	"time"

	"eventbook/internal/app/model"
)

// speakerFallbackBio is substituted when the wire record carries no speaker bio.
const speakerFallbackBio = "No bio available"

// ToEvent transforms a raw event record into the canonical entity.
// Numeric parsing never fails: malformed input normalizes to zero, and the
// available spot count is clamped into [0, capacity].
func ToEvent(w Event) model.Event {
	capacity := parseCount(w.Capacity)

	return model.Event{
		ID:             w.ID,
		Title:          w.Title,
		Description:    w.Description,
		Date:           extractDate(w.Date),
		Time:           extractTime(w.Time),
		Location:       w.Location,
		Price:          parseAmount(w.Price),
		Image:          w.Image,
		Capacity:       capacity,
		AvailableSpots: clampSpots(parseCount(w.AvailableSpots), capacity),
		Speakers:       []model.Speaker{expandSpeaker(w)},
		CreatedAt:      w.CreatedAt,
	}
}

// ToEvents transforms a slice of raw event records.
func ToEvents(ws []Event) []model.Event {
	events := make([]model.Event, 0, len(ws))
	for _, w := range ws {
		events = append(events, ToEvent(w))
	}
	return events
}

// ToEventPage transforms a raw paginated listing.
func ToEventPage(w EventPage) model.EventPage {
	return model.EventPage{
		Data:  ToEvents(w.Data),
		Total: w.Total,
		Page:  w.Page,
		Limit: w.Limit,
	}
}

// FromEvent transforms a canonical event back into its wire record. Zero-value
// fields are left empty so the encoder omits them instead of nulling remote
// state.
func FromEvent(e model.Event) Event {
	w := Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
	}

	if e.Date != "" {
		w.Date = dateToISO(e.Date)
	}
	if e.Time != "" {
		w.Time = timeToISO(e.Time)
	}

	w.Price = strconv.FormatFloat(e.Price, 'f', -1, 64)
	w.Capacity = strconv.Itoa(e.Capacity)
	w.AvailableSpots = strconv.Itoa(e.AvailableSpots)

	if len(e.Speakers) > 0 {
		sp := e.Speakers[0]
		w.SpeakersName = sp.Name
		w.SpeakerTitle = sp.Title
		w.SpeakerBio = sp.Bio
		w.SpeakerAvatar = sp.Avatar
	}

	return w
}

// expandSpeaker lifts the flattened single-speaker wire fields into a Speaker
// value. The store keeps no speaker id, so a stable synthetic one is assigned.
func expandSpeaker(w Event) model.Speaker {
	bio := w.SpeakerBio
	if bio == "" {
		bio = speakerFallbackBio
	}

	return model.Speaker{
		ID:     "1",
		Name:   w.SpeakersName,
		Title:  w.SpeakerTitle,
		Bio:    bio,
		Avatar: w.SpeakerAvatar,
	}
}

// parseAmount parses a string-encoded decimal, normalizing malformed input to 0.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseCount parses a string-encoded integer count, truncating decimals and
// normalizing malformed input to 0.
func parseCount(s string) int {
	return int(math.Floor(parseAmount(s)))
}

// clampSpots clamps an available spot count into [0, capacity].
func clampSpots(spots, capacity int) int {
	if spots < 0 {
		return 0
	}
	if spots > capacity {
		return capacity
	}
	return spots
}

// extractDate reduces a wire ISO timestamp to its YYYY-MM-DD day. Input that
// does not parse is passed through unchanged.
func extractDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("2006-01-02")
}

// extractTime reduces a wire ISO timestamp to its HH:MM start time. Input that
// does not parse is passed through unchanged.
func extractTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("15:04")
}

// dateToISO re-encodes a canonical YYYY-MM-DD day as a wire ISO timestamp.
func dateToISO(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.UTC().Format(time.RFC3339)
}

// timeToISO re-encodes a canonical HH:MM start time as a wire ISO timestamp
// on the store's sentinel date.
func timeToISO(hhmm string) string {
	t, err := time.Parse("2006-01-02T15:04", "2000-01-01T"+hhmm)
	if err != nil {
		return hhmm
	}
	return t.UTC().Format(time.RFC3339)
}
