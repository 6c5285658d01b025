package store

import (
	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/randx"
)

// NewSeeded constructs a store pre-loaded with demo events and the standard
// development account (client@test.com / 123123).
func NewSeeded() *Store {
	s := New()

	s.CreateUser(wire.User{
		Name:      "Client Test",
		Email:     "client@test.com",
		Password:  "123123",
		CreatedAt: "2025-01-02T09:00:00Z",
	})

	seedEvents := []wire.Event{
		{
			ID:             randx.NewEventID(),
			Title:          "Go Systems Summit",
			Description:    "Two days of talks on building reliable backend systems.",
			Date:           "2026-10-12T00:00:00Z",
			Time:           "2000-01-01T09:30:00Z",
			Location:       "Berlin",
			Price:          "149.5",
			Image:          "https://picsum.photos/seed/summit/600/400",
			Capacity:       "250",
			AvailableSpots: "212",
			SpeakersName:   "Maren Holt",
			SpeakerTitle:   "Principal Engineer",
			SpeakerBio:     "Works on large-scale data pipelines.",
			CreatedAt:      "2026-01-15T12:00:00Z",
		},
		{
			ID:             randx.NewEventID(),
			Title:          "Mobile Sync Workshop",
			Description:    "Hands-on session on offline-first client architecture.",
			Date:           "2026-11-03T00:00:00Z",
			Time:           "2000-01-01T13:00:00Z",
			Location:       "Amsterdam",
			Price:          "0",
			Image:          "https://picsum.photos/seed/sync/600/400",
			Capacity:       "40",
			AvailableSpots: "8",
			SpeakersName:   "Jonas Pieters",
			SpeakerTitle:   "Staff Engineer",
			SpeakerBio:     "Maintains a widely used sync framework.",
			CreatedAt:      "2026-02-01T08:30:00Z",
		},
		{
			ID:             randx.NewEventID(),
			Title:          "Cloud Native Meetup",
			Description:    "Monthly meetup for cloud infrastructure practitioners.",
			Date:           "2026-09-20T00:00:00Z",
			Time:           "2000-01-01T18:30:00Z",
			Location:       "Rotterdam",
			Price:          "15",
			Image:          "https://picsum.photos/seed/cloud/600/400",
			Capacity:       "80",
			AvailableSpots: "0",
			SpeakersName:   "Ana Ferreira",
			SpeakerTitle:   "SRE Lead",
			SpeakerBio:     "",
			CreatedAt:      "2026-03-11T16:45:00Z",
		},
	}

	for _, e := range seedEvents {
		s.PutEvent(e)
	}

	return s
}
