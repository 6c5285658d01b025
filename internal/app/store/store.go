/*
Package store is the in-memory backing store of the mock API server.

It stands in for the hosted collection store the client was originally built
against: three flat collections (events, users, registrations) holding wire
records with string-encoded numeric fields. Registration writes keep the
event's availableSpots counter in step so the client's authoritative
refetches observe the effect of their own mutations.
*/
package store

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/randx"
)

var (
	// ErrEventNotFound indicates a registration against an unknown event.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventFull indicates a registration against an event with no spots left.
	ErrEventFull = errors.New("event has no available spots")
)

// Store holds the mock collections. All access is mutex-guarded.
type Store struct {
	mu            sync.RWMutex
	events        []wire.Event
	users         []wire.User
	registrations []wire.Registration
}

// New constructs an empty store.
func New() *Store {
	return &Store{}
}

// Events returns one page of events, optionally filtered by a case-insensitive
// substring match on title and location, plus the total match count.
func (s *Store) Events(page, limit int, search string) wire.EventPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	matched := make([]wire.Event, 0, len(s.events))
	needle := strings.ToLower(search)
	for _, e := range s.events {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Location), needle) {
			matched = append(matched, e)
		}
	}

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	data := make([]wire.Event, end-start)
	copy(data, matched[start:end])

	return wire.EventPage{
		Data:  data,
		Total: len(matched),
		Page:  page,
		Limit: limit,
	}
}

// Event returns the event with the given id.
func (s *Store) Event(id string) (wire.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return wire.Event{}, false
}

// PutEvent inserts or replaces an event record. Used for seeding and tests.
func (s *Store) PutEvent(e wire.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
			return
		}
	}
	s.events = append(s.events, e)
}

// Users returns the full user collection, optionally filtered by exact email.
func (s *Store) Users(email string) []wire.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wire.User, 0, len(s.users))
	for _, u := range s.users {
		if email == "" || u.Email == email {
			out = append(out, u)
		}
	}
	return out
}

// User returns the user with the given id.
func (s *Store) User(id string) (wire.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return wire.User{}, false
}

// CreateUser inserts a user record, assigning an id and creation timestamp
// when the client supplied none.
func (s *Store) CreateUser(u wire.User) wire.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = randx.NewUserID()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.users = append(s.users, u)
	return u
}

// UpdateUser replaces the stored record's mutable fields with those of u.
// The id and creation timestamp are preserved.
func (s *Store) UpdateUser(id string, u wire.User) (wire.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}

		stored := s.users[i]
		if u.Name != "" {
			stored.Name = u.Name
		}
		if u.Email != "" {
			stored.Email = u.Email
		}
		if u.Password != "" {
			stored.Password = u.Password
		}
		if u.Avatar != "" {
			stored.Avatar = u.Avatar
		}
		if u.RegisteredEventIDs != nil {
			stored.RegisteredEventIDs = u.RegisteredEventIDs
		}
		s.users[i] = stored
		return stored, true
	}
	return wire.User{}, false
}

// Registrations returns registrations filtered by the optional userID and
// eventID parameters.
func (s *Store) Registrations(userID, eventID string) []wire.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wire.Registration, 0, len(s.registrations))
	for _, r := range s.registrations {
		if userID != "" && r.UserID != userID {
			continue
		}
		if eventID != "" && r.EventID != eventID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CreateRegistration inserts a registration and decrements the event's
// available spot counter. It fails when the event is unknown or sold out.
func (s *Store) CreateRegistration(r wire.Registration) (wire.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.events {
		if s.events[i].ID == r.EventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return wire.Registration{}, ErrEventNotFound
	}

	spots := parseCount(s.events[idx].AvailableSpots)
	if spots <= 0 {
		return wire.Registration{}, ErrEventFull
	}
	s.events[idx].AvailableSpots = strconv.Itoa(spots - 1)

	if r.ID == "" {
		r.ID = randx.NewRegistrationID()
	}
	if r.RegisteredAt == "" {
		r.RegisteredAt = time.Now().UTC().Format(time.RFC3339)
	}
	if r.Status == "" {
		r.Status = "confirmed"
	}
	s.registrations = append(s.registrations, r)
	return r, nil
}

// DeleteRegistration removes a registration by id and returns a spot to the
// event, capped at its capacity.
func (s *Store) DeleteRegistration(id string) (wire.Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.registrations {
		if r.ID != id {
			continue
		}

		s.registrations = append(s.registrations[:i], s.registrations[i+1:]...)

		for j := range s.events {
			if s.events[j].ID != r.EventID {
				continue
			}
			spots := parseCount(s.events[j].AvailableSpots) + 1
			capacity := parseCount(s.events[j].Capacity)
			if spots > capacity {
				spots = capacity
			}
			s.events[j].AvailableSpots = strconv.Itoa(spots)
			break
		}

		return r, true
	}
	return wire.Registration{}, false
}

// parseCount parses a string-encoded count, normalizing malformed input to 0.
func parseCount(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
